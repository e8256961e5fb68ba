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

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a payment
func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		r.logger.Error("Failed to create payment",
			zap.String("event_id", payment.EventID),
			zap.String("user_id", payment.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", translate(err))
	}
	return nil
}

// ListByUser retrieves payments newest first
func (r *paymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Payment, error) {
	var payments []*model.Payment
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")

	if err := paginate(query, limit, offset).Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
