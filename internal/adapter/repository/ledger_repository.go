package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	domainRepo "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ledgerRepository implements the LedgerRepository interface
type ledgerRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB, logger *zap.Logger) domainRepo.LedgerRepository {
	return &ledgerRepository{
		db:     db,
		logger: logger,
	}
}

// Insert appends a ledger row
func (r *ledgerRepository) Insert(ctx context.Context, entry *model.LedgerEntry) error {
	if entry.Delta == 0 {
		return domainRepo.ErrZeroDelta
	}

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		r.logger.Error("Failed to insert ledger entry",
			zap.String("user_id", entry.UserID.String()),
			zap.Int64("delta", entry.Delta),
			zap.String("reason", string(entry.Reason)),
			zap.Error(err))
		return fmt.Errorf("failed to insert ledger entry: %w", translate(err))
	}

	return nil
}

// SumByUser computes the balance from scratch
func (r *ledgerRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.LedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error

	if err != nil {
		r.logger.Error("Failed to sum ledger",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return 0, fmt.Errorf("failed to sum ledger: %w", err)
	}

	return sum, nil
}

// ListByUser retrieves ledger rows newest first
func (r *ledgerRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.LedgerEntry, error) {
	var entries []*model.LedgerEntry

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")

	if err := paginate(query, limit, offset).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return entries, nil
}

// CountByUser counts the user's ledger rows
func (r *ledgerRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.LedgerEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error

	if err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	return count, nil
}
