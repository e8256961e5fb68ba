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

// listingRepository implements the ListingRepository interface
type listingRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewListingRepository creates a new listing repository
func NewListingRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ListingRepository {
	return &listingRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a generated listing
func (r *listingRepository) Create(ctx context.Context, listing *model.Listing) error {
	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		r.logger.Error("Failed to create listing",
			zap.String("user_id", listing.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create listing: %w", translate(err))
	}
	return nil
}

// ListByUser retrieves listings newest first
func (r *listingRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Listing, error) {
	var listings []*model.Listing
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if err := paginate(query, limit, offset).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	return listings, nil
}
