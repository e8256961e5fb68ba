package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// LedgerReason explains why a ledger row exists.
type LedgerReason string

const (
	LedgerReasonPurchase            LedgerReason = "purchase"
	LedgerReasonSubscriptionGrant   LedgerReason = "subscription_grant"
	LedgerReasonSubscriptionRenewal LedgerReason = "subscription_renewal"
	LedgerReasonAdminAdjustment     LedgerReason = "admin_adjustment"
	LedgerReasonCorrection          LedgerReason = "correction"
	LedgerReasonUsage               LedgerReason = "usage"
	LedgerReasonRefund              LedgerReason = "refund"
)

// Valid reports whether r is a known reason.
func (r LedgerReason) Valid() bool {
	switch r {
	case LedgerReasonPurchase, LedgerReasonSubscriptionGrant, LedgerReasonSubscriptionRenewal,
		LedgerReasonAdminAdjustment, LedgerReasonCorrection, LedgerReasonUsage, LedgerReasonRefund:
		return true
	}
	return false
}

// Scan implements sql.Scanner interface
func (r *LedgerReason) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*r = LedgerReason(v)
	case []byte:
		*r = LedgerReason(v)
	}
	return nil
}

// Value implements driver.Valuer interface
func (r LedgerReason) Value() (driver.Value, error) {
	return string(r), nil
}

// LedgerEntry is one signed credit delta. Rows are never updated; corrections
// are new rows.
type LedgerEntry struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;index:idx_ledger_user_created" json:"user_id"`
	Delta       int64        `gorm:"not null" json:"delta"`
	Reason      LedgerReason `gorm:"type:ledger_reason;not null" json:"reason"`
	ExternalRef *string      `gorm:"size:255;index" json:"external_ref,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:now();index:idx_ledger_user_created" json:"created_at"`
}

// TableName specifies the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger"
}
