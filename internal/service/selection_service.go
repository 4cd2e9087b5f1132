package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"faculty-connect/internal/catalog"
	domain "faculty-connect/internal/domain/selection"
	interfaces "faculty-connect/internal/interfaces/infrastructure"
	serviceInterfaces "faculty-connect/internal/interfaces/service"
	"faculty-connect/pkg/logger"
	"faculty-connect/pkg/validator"

	"github.com/google/uuid"
)

var _ serviceInterfaces.SelectionService = (*SelectionService)(nil)

type SubmitRequest = serviceInterfaces.SubmitRequest
type SubmitResult = serviceInterfaces.SubmitResult

// SelectionService runs the student submission workflow: validate, check
// for a duplicate roll number, reserve one slot per subject, persist the
// submission, and compensate every reserved slot if a later step fails.
type SelectionService struct {
	catalog        *catalog.Catalog
	slots          interfaces.SlotStore
	submissionRepo interfaces.SubmissionRepository
	counterRepo    interfaces.SlotCounterRepository
	queueService   interfaces.QueueService
}

func NewSelectionService(
	cat *catalog.Catalog,
	slots interfaces.SlotStore,
	submissionRepo interfaces.SubmissionRepository,
	counterRepo interfaces.SlotCounterRepository,
	queueService interfaces.QueueService,
) *SelectionService {
	return &SelectionService{
		catalog:        cat,
		slots:          slots,
		submissionRepo: submissionRepo,
		counterRepo:    counterRepo,
		queueService:   queueService,
	}
}

// Submit processes one submission attempt. Workflow failures are reported
// in the result, never as a raw error; the result carries the current slot
// snapshot so the client can re-render availability.
func (s *SelectionService) Submit(ctx context.Context, req *SubmitRequest) *SubmitResult {
	logger.Info("Processing submission for roll number %s with %d selections", req.RollNumber, len(req.Selections))

	if fieldErrors := s.validate(req); len(fieldErrors) > 0 {
		return &SubmitResult{
			Success:     false,
			Message:     "Invalid submission. Please check the highlighted fields.",
			FieldErrors: fieldErrors,
		}
	}

	existing, err := s.submissionRepo.GetByRollNumber(ctx, req.RollNumber)
	if err != nil {
		logger.Error("Failed to check for existing submission %s: %v", req.RollNumber, err)
		return serverErrorResult()
	}
	if existing != nil {
		return &SubmitResult{
			Success:      false,
			Message:      fmt.Sprintf("Roll number %s has already submitted the form. Please contact administration if you need to make changes.", req.RollNumber),
			UpdatedSlots: s.snapshot(ctx),
		}
	}

	reserved, failure := s.reserveSelections(ctx, req)
	if failure != nil {
		return failure
	}

	submission := &domain.Submission{
		RollNumber:     req.RollNumber,
		SubmissionID:   uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		WhatsappNumber: req.WhatsappNumber,
		Timestamp:      time.Now().UTC(),
		Selections:     domain.SelectionsColumn(req.Selections),
	}

	if err := s.submissionRepo.InsertIfAbsent(ctx, submission); err != nil {
		s.releaseSlots(ctx, reserved)

		if errors.Is(err, domain.ErrDuplicateSubmission) {
			// Lost the race against a concurrent submission for the same
			// roll number; the insert-if-absent is the source of truth.
			logger.Warn("Duplicate submission for %s detected at persist time", req.RollNumber)
			return &SubmitResult{
				Success:      false,
				Message:      fmt.Sprintf("Roll number %s has already submitted the form. Please contact administration if you need to make changes.", req.RollNumber),
				UpdatedSlots: s.snapshot(ctx),
			}
		}

		logger.Error("Failed to persist submission for %s, slots compensated: %v", req.RollNumber, err)
		return &SubmitResult{
			Success:      false,
			Message:      "Your selections were processed, but there was an issue saving to the central record. Please contact administration.",
			UpdatedSlots: s.snapshot(ctx),
		}
	}

	logger.Info("Submission persisted for roll number %s", req.RollNumber)

	return &SubmitResult{
		Success:      true,
		Message:      fmt.Sprintf("Thank you, %s! Your faculty selections have been submitted successfully.", req.Name),
		UpdatedSlots: s.snapshot(ctx),
	}
}

// validate checks the student fields and the completeness and eligibility
// of the selections. It touches no stores.
func (s *SelectionService) validate(req *SubmitRequest) map[string]string {
	fieldErrors := make(map[string]string)

	if err := validator.ValidateStruct(req); err != nil {
		for _, ve := range validator.FormatValidationError(err) {
			fieldErrors[ve.Field] = ve.Message
		}
	}

	for _, subject := range s.catalog.Subjects() {
		facultyID, ok := req.Selections[subject.ID]
		if !ok || facultyID == "" {
			fieldErrors["selections."+subject.ID] = fmt.Sprintf("faculty selection is missing for %s", subject.Name)
			continue
		}
		if !s.catalog.Eligible(subject.ID, facultyID) {
			fieldErrors["selections."+subject.ID] = fmt.Sprintf("selected faculty cannot teach %s", subject.Name)
		}
	}

	for subjectID := range req.Selections {
		if s.catalog.SubjectByID(subjectID) == nil {
			fieldErrors["selections."+subjectID] = "unknown subject"
		}
	}

	return fieldErrors
}

// reserveSelections decrements one slot per subject in catalog declaration
// order. On the first exhausted slot it rolls back every reservation made in
// this pass and returns the failure result; counters end up exactly where
// they started.
func (s *SelectionService) reserveSelections(ctx context.Context, req *SubmitRequest) ([]domain.SlotRef, *SubmitResult) {
	reserved := make([]domain.SlotRef, 0, len(req.Selections))

	for _, subject := range s.catalog.Subjects() {
		facultyID := req.Selections[subject.ID]

		remaining, err := s.slots.Decrement(ctx, facultyID, subject.ID)
		if err != nil {
			s.releaseSlots(ctx, reserved)

			if errors.Is(err, domain.ErrNoSeats) {
				exhausted := &domain.SlotExhaustedError{
					SubjectID:   subject.ID,
					SubjectName: subject.Name,
					FacultyID:   facultyID,
				}
				logger.Info("Reservation failed for %s: %v", req.RollNumber, exhausted)
				return nil, &SubmitResult{
					Success:      false,
					Message:      fmt.Sprintf("No seats available with the selected faculty for %s. Please pick another faculty and try again.", subject.Name),
					UpdatedSlots: s.snapshot(ctx),
				}
			}

			logger.Error("Failed to reserve slot %s for %s: %v", catalog.SlotKey(facultyID, subject.ID), req.RollNumber, err)
			return nil, serverErrorResult()
		}

		reserved = append(reserved, domain.SlotRef{FacultyID: facultyID, SubjectID: subject.ID})
		s.enqueueSync(ctx, facultyID, subject.ID, remaining)
	}

	return reserved, nil
}

// releaseSlots compensates every reservation in the given order. A failed
// increment is logged and the loop continues; aborting early would leak the
// remaining reservations.
func (s *SelectionService) releaseSlots(ctx context.Context, reserved []domain.SlotRef) {
	for _, ref := range reserved {
		remaining, err := s.slots.Increment(ctx, ref.FacultyID, ref.SubjectID)
		if err != nil {
			logger.Error("Failed to restore slot %s during rollback: %v", catalog.SlotKey(ref.FacultyID, ref.SubjectID), err)
			continue
		}
		s.enqueueSync(ctx, ref.FacultyID, ref.SubjectID, remaining)
	}
}

// Slots returns the current remaining count for every valid pair.
func (s *SelectionService) Slots(ctx context.Context) (map[string]int, error) {
	return s.slots.GetAll(ctx)
}

// snapshot is the display-only bulk read attached to workflow results. It
// is never used to decide whether a decrement is allowed.
func (s *SelectionService) snapshot(ctx context.Context) map[string]int {
	slots, err := s.slots.GetAll(ctx)
	if err != nil {
		logger.Warn("Failed to read slot snapshot: %v", err)
		return nil
	}
	return slots
}

func serverErrorResult() *SubmitResult {
	return &SubmitResult{
		Success: false,
		Message: "Could not process your submission due to a server error. Please try again later.",
	}
}

func (s *SelectionService) enqueueSync(ctx context.Context, facultyID, subjectID string, remaining int) {
	if s.queueService == nil {
		return
	}
	job := interfaces.SlotSyncJob{
		FacultyID: facultyID,
		SubjectID: subjectID,
		Remaining: remaining,
		Timestamp: time.Now().UTC(),
	}
	if err := s.queueService.EnqueueSlotSync(ctx, job); err != nil {
		logger.Warn("Failed to enqueue counter sync for %s: %v", catalog.SlotKey(facultyID, subjectID), err)
	}
}

// ProcessSlotSync mirrors one counter value into the database. Called from
// the queue workers.
func (s *SelectionService) ProcessSlotSync(ctx context.Context, job interfaces.SlotSyncJob) error {
	if s.counterRepo == nil {
		return nil
	}

	counter := &domain.SlotCounter{
		Key:       catalog.SlotKey(job.FacultyID, job.SubjectID),
		FacultyID: job.FacultyID,
		SubjectID: job.SubjectID,
		Remaining: job.Remaining,
		UpdatedAt: job.Timestamp,
	}

	if err := s.counterRepo.Upsert(ctx, counter); err != nil {
		return fmt.Errorf("failed to sync counter %s: %w", counter.Key, err)
	}
	return nil
}
