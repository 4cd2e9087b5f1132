package repository

import (
	"context"
	"errors"
	"fmt"

	domain "faculty-connect/internal/domain/selection"
	interfaces "faculty-connect/internal/interfaces/infrastructure"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionRepository implements SubmissionRepository using GORM
type SubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new GORM submission repository
func NewSubmissionRepository(db *gorm.DB) interfaces.SubmissionRepository {
	return &SubmissionRepository{
		db: db,
	}
}

// InsertIfAbsent creates the submission unless one already exists for the
// roll number. The conflict clause makes the existence check and the insert
// one atomic statement, so two concurrent submissions for the same roll
// number cannot both pass.
func (r *SubmissionRepository) InsertIfAbsent(ctx context.Context, submission *domain.Submission) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "roll_number"}},
			DoNothing: true,
		}).
		Create(submission)
	if result.Error != nil {
		return fmt.Errorf("%w: failed to insert submission: %v", domain.ErrStoreUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrDuplicateSubmission
	}
	return nil
}

// GetByRollNumber retrieves a submission, or nil when none exists
func (r *SubmissionRepository) GetByRollNumber(ctx context.Context, rollNumber string) (*domain.Submission, error) {
	var submission domain.Submission
	err := r.db.WithContext(ctx).
		First(&submission, "roll_number = ?", rollNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to get submission: %v", domain.ErrStoreUnavailable, err)
	}
	return &submission, nil
}

// GetAll retrieves every submission, newest first
func (r *SubmissionRepository) GetAll(ctx context.Context) ([]*domain.Submission, error) {
	var submissions []*domain.Submission
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list submissions: %v", domain.ErrStoreUnavailable, err)
	}
	return submissions, nil
}

// DeleteAndReturn deletes the submission and returns the deleted record in
// one transaction, so slot restoration works from the exact row that was
// removed even if another delete races this one.
func (r *SubmissionRepository) DeleteAndReturn(ctx context.Context, rollNumber string) (*domain.Submission, error) {
	var submission domain.Submission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&submission, "roll_number = ?", rollNumber).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSubmissionNotFound
			}
			return err
		}
		return tx.Delete(&domain.Submission{}, "roll_number = ?", rollNumber).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to delete submission: %v", domain.ErrStoreUnavailable, err)
	}
	return &submission, nil
}
