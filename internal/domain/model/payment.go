package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records money received for a billing event.
type Payment struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID     string          `gorm:"size:255;not null;uniqueIndex" json:"event_id"`
	ProviderRef string          `gorm:"size:255;not null" json:"provider_ref"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency    string          `gorm:"size:3" json:"currency"`
	CreatedAt   time.Time       `gorm:"not null;default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// AmountFromMinorUnits converts a provider amount in cents into major units.
func AmountFromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
