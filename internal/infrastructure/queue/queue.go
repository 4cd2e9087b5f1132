package queue

import (
	"context"
	"fmt"
	"sync"

	interfaces "faculty-connect/internal/interfaces/infrastructure"
	serviceInterfaces "faculty-connect/internal/interfaces/service"
	"faculty-connect/pkg/logger"
)

// Queue drains slot counter sync jobs with a small worker pool. Jobs mirror
// Redis counter values into the database; losing one on overflow only delays
// the mirror, the authoritative counter is unaffected.
type Queue struct {
	slotSyncQueue chan interfaces.SlotSyncJob

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex

	selectionService serviceInterfaces.SelectionService
}

func NewInMemoryQueue(bufferSize, workers int) interfaces.QueueService {
	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		slotSyncQueue: make(chan interfaces.SlotSyncJob, bufferSize),
		workers:       workers,
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (q *Queue) SetSelectionService(service interface{}) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if selService, ok := service.(serviceInterfaces.SelectionService); ok {
		q.selectionService = selService
	} else {
		logger.Error("Invalid service type provided to SetSelectionService")
	}
}

func (q *Queue) StartWorkers() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started {
		return
	}

	if q.selectionService == nil {
		logger.Warn("Selection service not set, workers cannot process jobs")
		return
	}

	logger.Info("Starting %d slot sync workers", q.workers)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.slotSyncWorker(i)
	}

	q.started = true
}

func (q *Queue) StopWorkers() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return
	}

	logger.Info("Stopping slot sync workers...")
	q.cancel()
	q.wg.Wait()
	q.started = false
}

func (q *Queue) EnqueueSlotSync(ctx context.Context, job interfaces.SlotSyncJob) error {
	select {
	case q.slotSyncQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("slot sync queue is full")
	}
}

func (q *Queue) slotSyncWorker(id int) {
	defer q.wg.Done()

	logger.Debug("Slot sync worker %d started", id)

	for {
		select {
		case <-q.ctx.Done():
			logger.Debug("Slot sync worker %d stopping", id)
			return
		case job := <-q.slotSyncQueue:
			if err := q.selectionService.ProcessSlotSync(q.ctx, job); err != nil {
				logger.Warn("Worker %d failed to sync counter %s_%s: %v",
					id, job.FacultyID, job.SubjectID, err)
			}
		}
	}
}

var _ interfaces.QueueService = (*Queue)(nil)
