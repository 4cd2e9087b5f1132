package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateSubmission means the roll number already has a persisted
	// submission.
	ErrDuplicateSubmission = errors.New("roll number has already submitted")

	// ErrSubmissionNotFound means no submission exists for the roll number.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrNoSeats means a counter was at zero when a decrement was attempted.
	ErrNoSeats = errors.New("no seats available")

	// ErrStoreUnavailable means the backing store could not be reached. It is
	// surfaced to clients as a generic retryable server error.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// SlotExhaustedError reports which subject's chosen faculty had no seats
// left at reservation time.
type SlotExhaustedError struct {
	SubjectID   string
	SubjectName string
	FacultyID   string
}

func (e *SlotExhaustedError) Error() string {
	return fmt.Sprintf("no seats available for subject %s with faculty %s", e.SubjectID, e.FacultyID)
}

func (e *SlotExhaustedError) Unwrap() error {
	return ErrNoSeats
}
