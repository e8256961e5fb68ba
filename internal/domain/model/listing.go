package model

import (
	"time"

	"github.com/google/uuid"
)

// ListingKind selects which of the two listing products generated the copy.
type ListingKind string

const (
	ListingKindSale   ListingKind = "sale"
	ListingKindRental ListingKind = "rental"
)

// Listing is a generated piece of marketing copy and the facts it was built from.
type Listing struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID   `gorm:"type:uuid;not null;index:idx_listings_user_created" json:"user_id"`
	Kind         ListingKind `gorm:"size:20;not null" json:"kind"`
	Title        string      `gorm:"size:200;not null" json:"title"`
	Facts        JSONB       `gorm:"type:jsonb;not null" json:"facts"`
	Copy         string      `gorm:"type:text;not null" json:"copy"`
	Model        string      `gorm:"size:100" json:"model"`
	CreditsSpent int64       `gorm:"not null;default:0" json:"credits_spent"`
	CreatedAt    time.Time   `gorm:"not null;default:now();index:idx_listings_user_created" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Listing) TableName() string {
	return "listings"
}
