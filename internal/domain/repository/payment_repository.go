package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
)

// PaymentRepository records money received from the payment provider.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Payment, error)
}
