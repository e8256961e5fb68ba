package model

import (
	"time"
)

// BillingEventRecord is the idempotency claim for one provider event. The
// primary key on ID makes inserting it an atomic claim.
type BillingEventRecord struct {
	ID         string    `gorm:"primaryKey;size:255" json:"id"`
	Kind       string    `gorm:"not null;size:100;index" json:"kind"`
	Payload    JSONB     `gorm:"type:jsonb;not null" json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
	ReceivedAt time.Time `gorm:"not null;default:now()" json:"received_at"`
}

// TableName specifies the table name for GORM
func (BillingEventRecord) TableName() string {
	return "events"
}
