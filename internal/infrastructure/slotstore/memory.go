package slotstore

import (
	"context"
	"fmt"
	"sync"

	"faculty-connect/internal/catalog"
	domain "faculty-connect/internal/domain/selection"
	interfaces "faculty-connect/internal/interfaces/infrastructure"
)

// MemorySlotStore is a single-process SlotStore guarded by a mutex. It
// exists for tests and local runs without Redis; the semantics mirror
// RedisSlotStore exactly.
type MemorySlotStore struct {
	catalog  *catalog.Catalog
	mu       sync.Mutex
	counters map[string]int
}

func NewMemorySlotStore(cat *catalog.Catalog) *MemorySlotStore {
	return &MemorySlotStore{
		catalog:  cat,
		counters: make(map[string]int),
	}
}

// valueLocked returns the current counter, lazily creating it at capacity.
// Callers must hold mu.
func (m *MemorySlotStore) valueLocked(facultyID, subjectID string, cap int) int {
	key := catalog.SlotKey(facultyID, subjectID)
	if v, ok := m.counters[key]; ok {
		return v
	}
	m.counters[key] = cap
	return cap
}

func (m *MemorySlotStore) capacityFor(facultyID, subjectID string) (int, error) {
	if !m.catalog.Eligible(subjectID, facultyID) {
		return 0, fmt.Errorf("faculty %s is not assigned to subject %s", facultyID, subjectID)
	}
	return m.catalog.FacultyByID(facultyID).Capacity, nil
}

func (m *MemorySlotStore) Decrement(ctx context.Context, facultyID, subjectID string) (int, error) {
	cap, err := m.capacityFor(facultyID, subjectID)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	value := m.valueLocked(facultyID, subjectID, cap)
	if value <= 0 {
		return 0, domain.ErrNoSeats
	}

	value--
	m.counters[catalog.SlotKey(facultyID, subjectID)] = value
	return value, nil
}

func (m *MemorySlotStore) Increment(ctx context.Context, facultyID, subjectID string) (int, error) {
	cap, err := m.capacityFor(facultyID, subjectID)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	value := m.valueLocked(facultyID, subjectID, cap)
	if value >= cap {
		return value, nil
	}

	value++
	m.counters[catalog.SlotKey(facultyID, subjectID)] = value
	return value, nil
}

func (m *MemorySlotStore) GetAll(ctx context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]int)
	for _, pair := range m.catalog.Pairs() {
		out[catalog.SlotKey(pair.FacultyID, pair.SubjectID)] = m.valueLocked(pair.FacultyID, pair.SubjectID, pair.Capacity)
	}
	return out, nil
}

func (m *MemorySlotStore) WarmMissing(ctx context.Context, values map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pair := range m.catalog.Pairs() {
		key := catalog.SlotKey(pair.FacultyID, pair.SubjectID)
		if _, live := m.counters[key]; live {
			continue
		}
		if remaining, ok := values[key]; ok {
			m.counters[key] = remaining
		}
	}
	return nil
}

func (m *MemorySlotStore) ResetAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, pair := range m.catalog.Pairs() {
		m.counters[catalog.SlotKey(pair.FacultyID, pair.SubjectID)] = pair.Capacity
	}
	return nil
}

var _ interfaces.SlotStore = (*MemorySlotStore)(nil)
