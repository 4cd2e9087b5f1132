package catalog

import (
	"testing"

	"faculty-connect/internal/config"
)

func testConfig() config.CatalogConfig {
	return config.CatalogConfig{
		Faculties: []config.FacultyConfig{
			{ID: "f1", Name: "Dr. Alice Reed", Capacity: 3},
			{ID: "f2", Name: "Prof. Ben Okafor", Capacity: 5},
		},
		Subjects: []config.SubjectConfig{
			{ID: "s1", Name: "Linear Algebra", Faculties: []string{"f1", "f2"}},
			{ID: "s2", Name: "Thermodynamics", Faculties: []string{"f2"}},
		},
	}
}

func TestNew_ValidConfig(t *testing.T) {
	cat, err := New(testConfig())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(cat.Faculties()) != 2 {
		t.Errorf("Expected 2 faculties, got %d", len(cat.Faculties()))
	}
	if len(cat.Subjects()) != 2 {
		t.Errorf("Expected 2 subjects, got %d", len(cat.Subjects()))
	}

	faculty := cat.FacultyByID("f1")
	if faculty == nil {
		t.Fatal("Expected faculty f1 to exist")
	}
	if faculty.Capacity != 3 {
		t.Errorf("Expected capacity 3, got %d", faculty.Capacity)
	}

	subject := cat.SubjectByID("s2")
	if subject == nil {
		t.Fatal("Expected subject s2 to exist")
	}
	if subject.Name != "Thermodynamics" {
		t.Errorf("Expected subject name Thermodynamics, got %s", subject.Name)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.CatalogConfig)
	}{
		{"no faculties", func(c *config.CatalogConfig) { c.Faculties = nil }},
		{"no subjects", func(c *config.CatalogConfig) { c.Subjects = nil }},
		{"empty faculty id", func(c *config.CatalogConfig) { c.Faculties[0].ID = "" }},
		{"zero capacity", func(c *config.CatalogConfig) { c.Faculties[0].Capacity = 0 }},
		{"duplicate faculty", func(c *config.CatalogConfig) { c.Faculties[1].ID = "f1" }},
		{"duplicate subject", func(c *config.CatalogConfig) { c.Subjects[1].ID = "s1" }},
		{"unknown faculty ref", func(c *config.CatalogConfig) { c.Subjects[0].Faculties = []string{"f9"} }},
		{"no eligible faculties", func(c *config.CatalogConfig) { c.Subjects[0].Faculties = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Errorf("Expected error for %s, got nil", tc.name)
			}
		})
	}
}

func TestEligible(t *testing.T) {
	cat, err := New(testConfig())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !cat.Eligible("s1", "f1") {
		t.Error("Expected f1 to be eligible for s1")
	}
	if cat.Eligible("s2", "f1") {
		t.Error("Expected f1 to be ineligible for s2")
	}
	if cat.Eligible("s9", "f1") {
		t.Error("Expected unknown subject to be ineligible")
	}
}

func TestSlotKey(t *testing.T) {
	if got := SlotKey("f1", "s2"); got != "f1_s2" {
		t.Errorf("Expected slot key f1_s2, got %s", got)
	}
}

func TestPairs_OrderAndCapacity(t *testing.T) {
	cat, err := New(testConfig())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	pairs := cat.Pairs()
	if len(pairs) != 3 {
		t.Fatalf("Expected 3 pairs, got %d", len(pairs))
	}

	// Subject-major declaration order.
	expected := []Pair{
		{FacultyID: "f1", SubjectID: "s1", Capacity: 3},
		{FacultyID: "f2", SubjectID: "s1", Capacity: 5},
		{FacultyID: "f2", SubjectID: "s2", Capacity: 5},
	}
	for i, want := range expected {
		if pairs[i] != want {
			t.Errorf("Pair %d: expected %+v, got %+v", i, want, pairs[i])
		}
	}
}

func TestSubjects_PreservesDeclarationOrder(t *testing.T) {
	cat, err := New(testConfig())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	subjects := cat.Subjects()
	if subjects[0].ID != "s1" || subjects[1].ID != "s2" {
		t.Errorf("Expected declaration order s1, s2; got %s, %s", subjects[0].ID, subjects[1].ID)
	}
}
