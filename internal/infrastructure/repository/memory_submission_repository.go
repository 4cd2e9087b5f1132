package repository

import (
	"context"
	"sort"
	"sync"

	domain "faculty-connect/internal/domain/selection"
	interfaces "faculty-connect/internal/interfaces/infrastructure"
)

// memorySubmissionRepository is an in-memory SubmissionRepository for tests
// and database-less local runs. The single mutex gives InsertIfAbsent and
// DeleteAndReturn the same atomicity the SQL implementation gets from the
// database.
type memorySubmissionRepository struct {
	submissions map[string]*domain.Submission
	mutex       sync.RWMutex
}

// NewMemorySubmissionRepository creates a new in-memory submission repository
func NewMemorySubmissionRepository() interfaces.SubmissionRepository {
	return &memorySubmissionRepository{
		submissions: make(map[string]*domain.Submission),
	}
}

func (r *memorySubmissionRepository) InsertIfAbsent(ctx context.Context, submission *domain.Submission) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.submissions[submission.RollNumber]; exists {
		return domain.ErrDuplicateSubmission
	}

	copied := *submission
	r.submissions[submission.RollNumber] = &copied
	return nil
}

func (r *memorySubmissionRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*domain.Submission, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	submission, exists := r.submissions[rollNumber]
	if !exists {
		return nil, nil
	}

	copied := *submission
	return &copied, nil
}

func (r *memorySubmissionRepository) GetAll(ctx context.Context) ([]*domain.Submission, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]*domain.Submission, 0, len(r.submissions))
	for _, submission := range r.submissions {
		copied := *submission
		out = append(out, &copied)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	return out, nil
}

func (r *memorySubmissionRepository) DeleteAndReturn(ctx context.Context, rollNumber string) (*domain.Submission, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	submission, exists := r.submissions[rollNumber]
	if !exists {
		return nil, domain.ErrSubmissionNotFound
	}

	delete(r.submissions, rollNumber)
	return submission, nil
}
