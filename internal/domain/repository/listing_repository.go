package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
)

// ListingRepository stores generated listings.
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Listing, error)
}
