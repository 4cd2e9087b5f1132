package repository

import (
	"context"
	"fmt"

	domain "faculty-connect/internal/domain/selection"
	interfaces "faculty-connect/internal/interfaces/infrastructure"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotCounterRepository mirrors live counter values into Postgres using GORM.
// The rows are display/recovery copies; Redis stays authoritative.
type SlotCounterRepository struct {
	db *gorm.DB
}

// NewSlotCounterRepository creates a new GORM slot counter repository
func NewSlotCounterRepository(db *gorm.DB) interfaces.SlotCounterRepository {
	return &SlotCounterRepository{
		db: db,
	}
}

// Upsert writes one counter row, replacing the previous value for the key
func (r *SlotCounterRepository) Upsert(ctx context.Context, counter *domain.SlotCounter) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"remaining", "updated_at"}),
		}).
		Create(counter).Error
	if err != nil {
		return fmt.Errorf("failed to upsert slot counter %s: %w", counter.Key, err)
	}
	return nil
}

// GetAll returns every persisted counter row
func (r *SlotCounterRepository) GetAll(ctx context.Context) ([]*domain.SlotCounter, error) {
	var counters []*domain.SlotCounter
	err := r.db.WithContext(ctx).Find(&counters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list slot counters: %w", err)
	}
	return counters, nil
}

// ReplaceAll rewrites the whole table in one transaction (used by seeding
// and by the administrative reset)
func (r *SlotCounterRepository) ReplaceAll(ctx context.Context, counters []*domain.SlotCounter) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.SlotCounter{}).Error; err != nil {
			return fmt.Errorf("failed to clear slot counters: %w", err)
		}
		if len(counters) == 0 {
			return nil
		}
		if err := tx.Create(&counters).Error; err != nil {
			return fmt.Errorf("failed to write slot counters: %w", err)
		}
		return nil
	})
}
