package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
)

// ProfileRepository stores the plan state of users.
type ProfileRepository interface {
	// GetForUpdate returns the user's profile, creating a free profile when
	// none exists, and holds its row lock until the surrounding unit of work ends.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*model.Profile, error)

	// Get returns the user's profile, nil when absent.
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)

	// GetByCustomerRef returns the profile linked to a provider customer, nil when absent.
	GetByCustomerRef(ctx context.Context, customerRef string) (*model.Profile, error)

	// Save writes the profile back.
	Save(ctx context.Context, profile *model.Profile) error
}
