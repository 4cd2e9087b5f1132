package infrastructure

import (
	"context"
	"time"
)

// SlotSyncJob asks the workers to mirror one counter value into the
// database. Remaining is the value observed right after the atomic
// operation that produced the job.
type SlotSyncJob struct {
	FacultyID string    `json:"faculty_id"`
	SubjectID string    `json:"subject_id"`
	Remaining int       `json:"remaining"`
	Timestamp time.Time `json:"timestamp"`
}

// QueueService runs background workers that drain counter sync jobs.
type QueueService interface {
	EnqueueSlotSync(ctx context.Context, job SlotSyncJob) error
	SetSelectionService(service interface{})
	StartWorkers()
	StopWorkers()
}
