package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"faculty-connect/internal/catalog"
	domain "faculty-connect/internal/domain/selection"
	interfaces "faculty-connect/internal/interfaces/infrastructure"
	serviceInterfaces "faculty-connect/internal/interfaces/service"
	"faculty-connect/pkg/logger"
)

var _ serviceInterfaces.AdminService = (*AdminService)(nil)

type DeletionResult = serviceInterfaces.DeletionResult
type SubmissionRow = serviceInterfaces.SubmissionRow

// AdminService backs the admin dashboard: listing, CSV export, deletion
// with slot restoration, and the administrative counter reset.
type AdminService struct {
	catalog        *catalog.Catalog
	slots          interfaces.SlotStore
	submissionRepo interfaces.SubmissionRepository
	queueService   interfaces.QueueService
}

func NewAdminService(
	cat *catalog.Catalog,
	slots interfaces.SlotStore,
	submissionRepo interfaces.SubmissionRepository,
	queueService interfaces.QueueService,
) *AdminService {
	return &AdminService{
		catalog:        cat,
		slots:          slots,
		submissionRepo: submissionRepo,
		queueService:   queueService,
	}
}

// ListSubmissions returns every submission as a dashboard row, newest
// first, with subject and faculty ids resolved to display names.
func (s *AdminService) ListSubmissions(ctx context.Context) ([]SubmissionRow, error) {
	submissions, err := s.submissionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	rows := make([]SubmissionRow, 0, len(submissions))
	for _, submission := range submissions {
		rows = append(rows, s.toRow(submission))
	}
	return rows, nil
}

func (s *AdminService) toRow(submission *domain.Submission) SubmissionRow {
	selections := submission.SelectionMap()
	choices := make(map[string]string, len(s.catalog.Subjects()))

	for _, subject := range s.catalog.Subjects() {
		facultyID, ok := selections[subject.ID]
		if !ok {
			choices[subject.Name] = "Not Selected"
			continue
		}
		if faculty := s.catalog.FacultyByID(facultyID); faculty != nil {
			choices[subject.Name] = faculty.Name
		} else {
			choices[subject.Name] = fmt.Sprintf("Faculty %s not found", facultyID)
		}
	}

	return SubmissionRow{
		Timestamp:      submission.Timestamp.UTC().Format(time.RFC3339),
		RollNumber:     submission.RollNumber,
		Name:           submission.Name,
		Email:          submission.Email,
		WhatsappNumber: submission.WhatsappNumber,
		Choices:        choices,
	}
}

// ExportCSV renders every submission as CSV with one column per subject,
// matching the sheet layout the dashboard download expects.
func (s *AdminService) ExportCSV(ctx context.Context) ([]byte, error) {
	rows, err := s.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Timestamp", "Roll Number", "Name", "Email ID", "WhatsApp Number"}
	for _, subject := range s.catalog.Subjects() {
		header = append(header, subject.Name)
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{row.Timestamp, row.RollNumber, row.Name, row.Email, row.WhatsappNumber}
		for _, subject := range s.catalog.Subjects() {
			record = append(record, row.Choices[subject.Name])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// DeleteSubmission removes the submission and restores every slot it had
// consumed. Restorations are attempted independently; the deletion is never
// rolled back, because a phantom submission is worse than an under-restored
// counter.
func (s *AdminService) DeleteSubmission(ctx context.Context, rollNumber string) (*DeletionResult, error) {
	deleted, err := s.submissionRepo.DeleteAndReturn(ctx, rollNumber)
	if err != nil {
		return nil, err
	}

	logger.Info("Deleted submission for %s, restoring %d slots", rollNumber, len(deleted.Selections))

	result := &DeletionResult{RollNumber: rollNumber}
	selections := deleted.SelectionMap()

	// Catalog subject order first, matching the order reservations were
	// made in; entries for subjects no longer in the catalog come last.
	for _, subject := range s.catalog.Subjects() {
		facultyID, ok := selections[subject.ID]
		if !ok {
			continue
		}
		delete(selections, subject.ID)
		s.restoreSlot(ctx, subject.ID, facultyID, result)
	}
	for subjectID, facultyID := range selections {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("subject %s no longer in catalog, skipped restoring faculty %s", subjectID, facultyID))
	}

	if result.Partial() {
		logger.Warn("Partial slot restoration for %s: %d restored, %d failed",
			rollNumber, len(result.Restored), len(result.Failed))
	}

	return result, nil
}

func (s *AdminService) restoreSlot(ctx context.Context, subjectID, facultyID string, result *DeletionResult) {
	key := catalog.SlotKey(facultyID, subjectID)

	if s.catalog.FacultyByID(facultyID) == nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("faculty %s no longer in catalog, skipped restoring slot for subject %s", facultyID, subjectID))
		return
	}

	remaining, err := s.slots.Increment(ctx, facultyID, subjectID)
	if err != nil {
		logger.Error("Failed to restore slot %s: %v", key, err)
		result.Failed = append(result.Failed, key)
		return
	}

	result.Restored = append(result.Restored, key)
	s.enqueueSync(ctx, facultyID, subjectID, remaining)
}

// ResetSlots rewrites every counter to full capacity. In-flight
// reservations racing the reset are clobbered; this is an administrative
// reset, not a safe concurrent operation.
func (s *AdminService) ResetSlots(ctx context.Context) error {
	if err := s.slots.ResetAll(ctx); err != nil {
		return fmt.Errorf("failed to reset slots: %w", err)
	}

	logger.Info("All slot counters reset to capacity")

	for _, pair := range s.catalog.Pairs() {
		s.enqueueSync(ctx, pair.FacultyID, pair.SubjectID, pair.Capacity)
	}
	return nil
}

func (s *AdminService) enqueueSync(ctx context.Context, facultyID, subjectID string, remaining int) {
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
