package service

import (
	"context"

	infrastructure "faculty-connect/internal/interfaces/infrastructure"
)

// SubmitRequest carries one student's form submission. Selections maps
// subject id to the chosen faculty id; completeness and eligibility are
// checked against the catalog, not by tags.
type SubmitRequest struct {
	RollNumber     string            `json:"rollNumber" validate:"required,rollnumber"`
	Name           string            `json:"name" validate:"required,min=2,max=100"`
	Email          string            `json:"email" validate:"required,email"`
	WhatsappNumber string            `json:"whatsappNumber" validate:"required,whatsapp"`
	Selections     map[string]string `json:"selections" validate:"required"`
}

// SubmitResult is the structured outcome of a submission attempt. Workflow
// failures (validation, duplicate, exhausted slot, persistence) are reported
// here with Success=false, never as raw errors.
type SubmitResult struct {
	Success      bool              `json:"success"`
	Message      string            `json:"message"`
	FieldErrors  map[string]string `json:"fieldErrors,omitempty"`
	UpdatedSlots map[string]int    `json:"updatedSlots,omitempty"`
}

// DeletionResult is the outcome of an admin deletion. The deletion itself
// always stands once the record is removed; Restored and Failed track the
// independent slot restorations.
type DeletionResult struct {
	RollNumber string   `json:"rollNumber"`
	Restored   []string `json:"restored"`
	Failed     []string `json:"failed,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Partial reports whether some restorations failed while the deletion
// succeeded.
func (r *DeletionResult) Partial() bool {
	return len(r.Failed) > 0
}

// SubmissionRow is one admin-dashboard row with catalog ids resolved to
// display names, keyed by subject name.
type SubmissionRow struct {
	Timestamp      string            `json:"timestamp"`
	RollNumber     string            `json:"rollNumber"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	WhatsappNumber string            `json:"whatsappNumber"`
	Choices        map[string]string `json:"choices"`
}

// SelectionService is the student-facing submission workflow.
type SelectionService interface {
	Submit(ctx context.Context, req *SubmitRequest) *SubmitResult
	Slots(ctx context.Context) (map[string]int, error)
	ProcessSlotSync(ctx context.Context, job infrastructure.SlotSyncJob) error
}

// AdminService is the dashboard-facing workflow. Callers are assumed to be
// already authorized; no authentication happens here.
type AdminService interface {
	ListSubmissions(ctx context.Context) ([]SubmissionRow, error)
	ExportCSV(ctx context.Context) ([]byte, error)
	DeleteSubmission(ctx context.Context, rollNumber string) (*DeletionResult, error)
	ResetSlots(ctx context.Context) error
}
