package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	domainRepo "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eventRepository implements the EventRepository interface
type eventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB, logger *zap.Logger) domainRepo.EventRepository {
	return &eventRepository{
		db:     db,
		logger: logger,
	}
}

// Claim inserts the event id; the primary key makes concurrent claims of the
// same id race-free. A conflicting uncommitted claim blocks until it settles.
func (r *eventRepository) Claim(ctx context.Context, record *model.BillingEventRecord) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(record)

	if result.Error != nil {
		r.logger.Error("Failed to claim billing event",
			zap.String("event_id", record.ID),
			zap.String("kind", record.Kind),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to claim event: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// Get retrieves an event record by id
func (r *eventRepository) Get(ctx context.Context, id string) (*model.BillingEventRecord, error) {
	var record model.BillingEventRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &record, nil
}
