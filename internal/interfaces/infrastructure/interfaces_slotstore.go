package infrastructure

import "context"

// SlotStore holds the remaining-seat counter for every valid
// (faculty, subject) pair. Counters are created lazily at the faculty's full
// capacity and are only ever mutated through the atomic operations below.
type SlotStore interface {
	// Decrement atomically decrements the counter if it is positive and
	// returns the new remaining count. Returns selection.ErrNoSeats when the
	// counter is already at zero.
	Decrement(ctx context.Context, facultyID, subjectID string) (int, error)

	// Increment atomically increments the counter, capped at the faculty's
	// capacity. An increment against a full counter is a successful no-op
	// that reports remaining == capacity, so compensation never fails merely
	// because a slot was already restored.
	Increment(ctx context.Context, facultyID, subjectID string) (int, error)

	// GetAll returns the remaining count for every valid pair keyed by
	// "<facultyId>_<subjectId>", lazily initializing missing counters.
	GetAll(ctx context.Context) (map[string]int, error)

	// WarmMissing seeds counters that have no value yet, leaving live
	// counters untouched. Used at startup to restore persisted counts.
	WarmMissing(ctx context.Context, values map[string]int) error

	// ResetAll rewrites every counter to full capacity. Administrative
	// utility; in-flight reservations racing a reset are clobbered by design.
	ResetAll(ctx context.Context) error
}
