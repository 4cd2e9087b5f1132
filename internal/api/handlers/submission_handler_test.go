package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"faculty-connect/internal/catalog"
	"faculty-connect/internal/config"
	"faculty-connect/internal/infrastructure/repository"
	"faculty-connect/internal/infrastructure/slotstore"
	"faculty-connect/internal/service"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cat, err := catalog.New(config.CatalogConfig{
		Faculties: []config.FacultyConfig{
			{ID: "f1", Name: "Dr. Alice Reed", Capacity: 3},
			{ID: "f2", Name: "Prof. Ben Okafor", Capacity: 3},
		},
		Subjects: []config.SubjectConfig{
			{ID: "s1", Name: "Linear Algebra", Faculties: []string{"f1", "f2"}},
		},
	})
	if err != nil {
		t.Fatalf("Failed to build test catalog: %v", err)
	}

	store := slotstore.NewMemorySlotStore(cat)
	repo := repository.NewMemorySubmissionRepository()
	selectionService := service.NewSelectionService(cat, store, repo, nil, nil)
	handler := NewSubmissionHandler(selectionService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/submissions", handler.Submit)
	r.GET("/api/v1/slots", handler.GetSlots)
	return r
}

func postSubmission(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{
	"rollNumber": "21091A0542",
	"name": "Test Student",
	"email": "student@example.com",
	"whatsappNumber": "9876543210",
	"selections": {"s1": "f1"}
}`

func TestSubmit_EndToEnd(t *testing.T) {
	r := newTestRouter(t)

	w := postSubmission(r, validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var result service.SubmitResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Expected valid JSON body, got %v", err)
	}
	if !result.Success {
		t.Fatalf("Expected success, got %q", result.Message)
	}
	if result.UpdatedSlots["f1_s1"] != 2 {
		t.Errorf("Expected f1_s1 at 2 after submission, got %d", result.UpdatedSlots["f1_s1"])
	}
}

func TestSubmit_MalformedJSON(t *testing.T) {
	r := newTestRouter(t)

	w := postSubmission(r, `{"rollNumber": `)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed JSON, got %d", w.Code)
	}
}

func TestSubmit_WorkflowFailureIsStill200(t *testing.T) {
	r := newTestRouter(t)

	if w := postSubmission(r, validBody); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for first submission, got %d", w.Code)
	}

	// Duplicate roll number is a workflow outcome, not an HTTP error.
	w := postSubmission(r, validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for duplicate submission, got %d", w.Code)
	}

	var result service.SubmitResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Expected valid JSON body, got %v", err)
	}
	if result.Success {
		t.Error("Expected duplicate submission to be reported as failure")
	}
}

func TestGetSlots(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/slots", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Slots map[string]int `json:"slots"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Expected valid JSON body, got %v", err)
	}
	if !resp.Success {
		t.Error("Expected success envelope")
	}
	if resp.Data.Slots["f1_s1"] != 3 || resp.Data.Slots["f2_s1"] != 3 {
		t.Errorf("Expected both counters at 3, got %v", resp.Data.Slots)
	}
}
