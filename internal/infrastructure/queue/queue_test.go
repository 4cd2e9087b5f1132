package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	interfaces "faculty-connect/internal/interfaces/infrastructure"
	serviceInterfaces "faculty-connect/internal/interfaces/service"
)

// recordingService captures the jobs the workers hand it.
type recordingService struct {
	mu   sync.Mutex
	jobs []interfaces.SlotSyncJob
}

func (s *recordingService) Submit(ctx context.Context, req *serviceInterfaces.SubmitRequest) *serviceInterfaces.SubmitResult {
	return nil
}

func (s *recordingService) Slots(ctx context.Context) (map[string]int, error) {
	return nil, nil
}

func (s *recordingService) ProcessSlotSync(ctx context.Context, job interfaces.SlotSyncJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *recordingService) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func TestQueue_WorkersProcessJobs(t *testing.T) {
	q := NewInMemoryQueue(16, 2)
	svc := &recordingService{}

	q.SetSelectionService(svc)
	q.StartWorkers()
	defer q.StopWorkers()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		job := interfaces.SlotSyncJob{FacultyID: "f1", SubjectID: "s1", Remaining: i}
		if err := q.EnqueueSlotSync(ctx, job); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for svc.count() < 5 {
		if time.Now().After(deadline) {
			t.Fatalf("Expected 5 processed jobs, got %d", svc.count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestQueue_EnqueueFailsWhenFull(t *testing.T) {
	// No workers started, so nothing drains the buffer.
	q := NewInMemoryQueue(1, 1)
	ctx := context.Background()

	job := interfaces.SlotSyncJob{FacultyID: "f1", SubjectID: "s1", Remaining: 1}
	if err := q.EnqueueSlotSync(ctx, job); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := q.EnqueueSlotSync(ctx, job); err == nil {
		t.Fatal("Expected error when the queue is full")
	}
}

func TestQueue_StartWithoutServiceDoesNothing(t *testing.T) {
	q := NewInMemoryQueue(1, 1)

	// Must not panic or start workers that would dereference a nil service.
	q.StartWorkers()
	q.StopWorkers()
}

func TestQueue_EnqueueRespectsContextCancellation(t *testing.T) {
	q := NewInMemoryQueue(1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := interfaces.SlotSyncJob{FacultyID: "f1", SubjectID: "s1", Remaining: 1}
	// A cancelled context with buffer space still enqueues via the
	// non-blocking send; fill the buffer first to force the error path.
	if err := q.EnqueueSlotSync(context.Background(), job); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := q.EnqueueSlotSync(ctx, job); err == nil {
		t.Fatal("Expected error for cancelled context on a full queue")
	}
}
