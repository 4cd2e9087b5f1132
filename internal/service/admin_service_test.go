package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	domain "faculty-connect/internal/domain/selection"
	"faculty-connect/internal/infrastructure/repository"
	"faculty-connect/internal/infrastructure/slotstore"
	interfaces "faculty-connect/internal/interfaces/infrastructure"

	"github.com/google/uuid"
)

func storedSubmission(rollNumber string, selections map[string]string, ts time.Time) *domain.Submission {
	return &domain.Submission{
		RollNumber:     rollNumber,
		SubmissionID:   uuid.New(),
		Name:           "Test Student",
		Email:          "student@example.com",
		WhatsappNumber: "9876543210",
		Timestamp:      ts,
		Selections:     domain.SelectionsColumn(selections),
	}
}

func newTestAdminService(t *testing.T, capacity int) (*AdminService, *slotstore.MemorySlotStore, interfaces.SubmissionRepository) {
	t.Helper()
	cat := testCatalog(t, capacity)
	store := slotstore.NewMemorySlotStore(cat)
	repo := repository.NewMemorySubmissionRepository()
	svc := NewAdminService(cat, store, repo, nil)
	return svc, store, repo
}

func TestDeleteSubmission_RestoresSlots(t *testing.T) {
	svc, store, repo := newTestAdminService(t, 5)
	ctx := context.Background()

	selections := map[string]string{"s1": "f1", "s2": "f2"}
	for subjectID, facultyID := range selections {
		if _, err := store.Decrement(ctx, facultyID, subjectID); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}
	if err := repo.InsertIfAbsent(ctx, storedSubmission("21091A0542", selections, time.Now())); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	result, err := svc.DeleteSubmission(ctx, "21091A0542")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Partial() {
		t.Fatalf("Expected full restoration, got failed: %v", result.Failed)
	}
	if len(result.Restored) != 2 {
		t.Errorf("Expected 2 restored slots, got %d", len(result.Restored))
	}

	values, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for key, v := range values {
		if v != 5 {
			t.Errorf("Expected counter %s restored to 5, got %d", key, v)
		}
	}

	remaining, err := repo.GetByRollNumber(ctx, "21091A0542")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if remaining != nil {
		t.Error("Expected submission to be deleted")
	}
}

func TestDeleteSubmission_RestorationCappedAtCapacity(t *testing.T) {
	svc, store, repo := newTestAdminService(t, 5)
	ctx := context.Background()

	// Counters never dipped, e.g. after an admin reset. Restoration must not
	// push them past capacity.
	selections := map[string]string{"s1": "f1", "s2": "f2"}
	if err := repo.InsertIfAbsent(ctx, storedSubmission("21091A0542", selections, time.Now())); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	result, err := svc.DeleteSubmission(ctx, "21091A0542")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Partial() {
		t.Fatalf("Expected capped restoration to count as success, got failed: %v", result.Failed)
	}

	values, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for key, v := range values {
		if v != 5 {
			t.Errorf("Expected counter %s capped at 5, got %d", key, v)
		}
	}
}

func TestDeleteSubmission_NotFound(t *testing.T) {
	svc, _, _ := newTestAdminService(t, 5)

	_, err := svc.DeleteSubmission(context.Background(), "21091A0542")
	if !errors.Is(err, domain.ErrSubmissionNotFound) {
		t.Fatalf("Expected ErrSubmissionNotFound, got %v", err)
	}
}

// failingIncrementStore fails restoration for one slot key.
type failingIncrementStore struct {
	interfaces.SlotStore
	failKey string
}

func (s *failingIncrementStore) Increment(ctx context.Context, facultyID, subjectID string) (int, error) {
	if facultyID+"_"+subjectID == s.failKey {
		return 0, fmt.Errorf("connection refused")
	}
	return s.SlotStore.Increment(ctx, facultyID, subjectID)
}

func TestDeleteSubmission_PartialRestoration(t *testing.T) {
	cat := testCatalog(t, 5)
	store := &failingIncrementStore{SlotStore: slotstore.NewMemorySlotStore(cat), failKey: "f2_s2"}
	repo := repository.NewMemorySubmissionRepository()
	svc := NewAdminService(cat, store, repo, nil)
	ctx := context.Background()

	selections := map[string]string{"s1": "f1", "s2": "f2"}
	if err := repo.InsertIfAbsent(ctx, storedSubmission("21091A0542", selections, time.Now())); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	result, err := svc.DeleteSubmission(ctx, "21091A0542")
	if err != nil {
		t.Fatalf("Expected the deletion itself to succeed, got %v", err)
	}
	if !result.Partial() {
		t.Fatal("Expected partial restoration")
	}
	if len(result.Failed) != 1 || result.Failed[0] != "f2_s2" {
		t.Errorf("Expected failed slot f2_s2, got %v", result.Failed)
	}
	if len(result.Restored) != 1 || result.Restored[0] != "f1_s1" {
		t.Errorf("Expected restored slot f1_s1, got %v", result.Restored)
	}

	// The deletion stands even though restoration was partial.
	remaining, err := repo.GetByRollNumber(ctx, "21091A0542")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if remaining != nil {
		t.Error("Expected submission to be deleted despite the failed restoration")
	}
}

func TestDeleteSubmission_UnknownSubjectWarning(t *testing.T) {
	svc, _, repo := newTestAdminService(t, 5)
	ctx := context.Background()

	selections := map[string]string{"s1": "f1", "s9": "f1"}
	if err := repo.InsertIfAbsent(ctx, storedSubmission("21091A0542", selections, time.Now())); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	result, err := svc.DeleteSubmission(ctx, "21091A0542")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Partial() {
		t.Fatalf("Expected no failed restorations, got %v", result.Failed)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Expected 1 warning for the unknown subject, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "s9") {
		t.Errorf("Expected warning to name subject s9, got %q", result.Warnings[0])
	}
}

func TestListSubmissions_ResolvesNames(t *testing.T) {
	svc, _, repo := newTestAdminService(t, 5)
	ctx := context.Background()
	base := time.Now()

	if err := repo.InsertIfAbsent(ctx, storedSubmission("21091A0511",
		map[string]string{"s1": "f1"}, base.Add(-time.Hour))); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := repo.InsertIfAbsent(ctx, storedSubmission("21091A0522",
		map[string]string{"s1": "f2", "s2": "f1"}, base)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rows, err := svc.ListSubmissions(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].RollNumber != "21091A0522" {
		t.Errorf("Expected newest submission first, got %s", rows[0].RollNumber)
	}
	if rows[0].Choices["Linear Algebra"] != "Prof. Ben Okafor" {
		t.Errorf("Expected faculty name resolved, got %q", rows[0].Choices["Linear Algebra"])
	}
	if rows[1].Choices["Thermodynamics"] != "Not Selected" {
		t.Errorf("Expected Not Selected for missing choice, got %q", rows[1].Choices["Thermodynamics"])
	}
}

func TestExportCSV(t *testing.T) {
	svc, _, repo := newTestAdminService(t, 5)
	ctx := context.Background()

	if err := repo.InsertIfAbsent(ctx, storedSubmission("21091A0542",
		map[string]string{"s1": "f1", "s2": "f2"}, time.Now())); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	data, err := svc.ExportCSV(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("Expected valid CSV, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected header plus 1 row, got %d records", len(records))
	}

	header := records[0]
	expectedHeader := []string{"Timestamp", "Roll Number", "Name", "Email ID", "WhatsApp Number", "Linear Algebra", "Thermodynamics"}
	if len(header) != len(expectedHeader) {
		t.Fatalf("Expected %d header columns, got %d", len(expectedHeader), len(header))
	}
	for i, want := range expectedHeader {
		if header[i] != want {
			t.Errorf("Header column %d: expected %q, got %q", i, want, header[i])
		}
	}

	row := records[1]
	if row[1] != "21091A0542" {
		t.Errorf("Expected roll number in column 1, got %q", row[1])
	}
	if row[5] != "Dr. Alice Reed" {
		t.Errorf("Expected resolved faculty name, got %q", row[5])
	}
}

func TestResetSlots(t *testing.T) {
	svc, store, _ := newTestAdminService(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Decrement(ctx, "f1", "s1"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	if err := svc.ResetSlots(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	values, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for key, v := range values {
		if v != 3 {
			t.Errorf("Expected counter %s reset to 3, got %d", key, v)
		}
	}
}
