package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/entity"
)

// Profile holds the current plan of a user. One row per user, created lazily
// and never deleted.
type Profile struct {
	UserID      uuid.UUID         `gorm:"type:uuid;primaryKey" json:"user_id"`
	PlanTier    entity.PlanTier   `gorm:"type:plan_tier;not null;default:'free'" json:"plan_tier"`
	PlanStatus  entity.PlanStatus `gorm:"type:plan_status;not null;default:'none'" json:"plan_status"`
	CustomerRef *string           `gorm:"size:100;uniqueIndex" json:"customer_ref,omitempty"`
	// PlanEventAt is the provider time of the last lifecycle event applied to the plan.
	PlanEventAt *time.Time `json:"plan_event_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile returns the initial free profile of a user.
func NewProfile(userID uuid.UUID) *Profile {
	return &Profile{
		UserID:     userID,
		PlanTier:   entity.PlanTierFree,
		PlanStatus: entity.PlanStatusNone,
	}
}

// Unlimited reports whether the profile's usage is not metered in credits.
func (p *Profile) Unlimited() bool {
	return p.PlanTier == entity.PlanTierPremium && p.PlanStatus == entity.PlanStatusActive
}
