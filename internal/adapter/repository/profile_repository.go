package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	domainRepo "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// profileRepository implements the ProfileRepository interface
type profileRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ProfileRepository {
	return &profileRepository{
		db:     db,
		logger: logger,
	}
}

// GetForUpdate creates the profile if missing and locks its row
func (r *profileRepository) GetForUpdate(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	db := r.db.WithContext(ctx)

	// Concurrent first contacts both insert; the loser does nothing and
	// then waits on the row lock below.
	if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(model.NewProfile(userID)).Error; err != nil {
		r.logger.Error("Failed to create profile",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	var profile model.Profile
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&profile).Error

	if err != nil {
		r.logger.Error("Failed to lock profile row",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}

	return &profile, nil
}

// Get retrieves a profile, nil when the user has none
func (r *profileRepository) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// GetByCustomerRef retrieves the profile linked to a provider customer
func (r *profileRepository) GetByCustomerRef(ctx context.Context, customerRef string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Where("customer_ref = ?", customerRef).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile by customer: %w", err)
	}
	return &profile, nil
}

// Save writes every column of the profile
func (r *profileRepository) Save(ctx context.Context, profile *model.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		r.logger.Error("Failed to save profile",
			zap.String("user_id", profile.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to save profile: %w", translate(err))
	}
	return nil
}
