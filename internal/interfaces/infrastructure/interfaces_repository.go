package infrastructure

import (
	"context"

	domain "faculty-connect/internal/domain/selection"
)

// SubmissionRepository stores one submission per roll number.
type SubmissionRepository interface {
	// InsertIfAbsent creates the record only if no submission exists for the
	// roll number, in a single atomic operation. Returns
	// selection.ErrDuplicateSubmission otherwise.
	InsertIfAbsent(ctx context.Context, submission *domain.Submission) error

	// GetByRollNumber returns the submission or nil when absent.
	GetByRollNumber(ctx context.Context, rollNumber string) (*domain.Submission, error)

	// GetAll returns every submission ordered by timestamp descending.
	GetAll(ctx context.Context) ([]*domain.Submission, error)

	// DeleteAndReturn atomically deletes and returns the record so the
	// caller can restore its slots without a second lookup. Returns
	// selection.ErrSubmissionNotFound when absent.
	DeleteAndReturn(ctx context.Context, rollNumber string) (*domain.Submission, error)
}

// SlotCounterRepository mirrors live counter values into the database.
type SlotCounterRepository interface {
	Upsert(ctx context.Context, counter *domain.SlotCounter) error
	GetAll(ctx context.Context) ([]*domain.SlotCounter, error)
	ReplaceAll(ctx context.Context, counters []*domain.SlotCounter) error
}
