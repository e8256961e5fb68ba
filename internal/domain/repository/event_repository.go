package repository

import (
	"context"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
)

// EventRepository stores the ids of handled billing events.
type EventRepository interface {
	// Claim inserts the record unless its id is already present. It reports
	// whether this call inserted the row. Of several concurrent calls with the
	// same id exactly one returns true.
	Claim(ctx context.Context, record *model.BillingEventRecord) (bool, error)

	// Get returns the record with the given id, nil when absent.
	Get(ctx context.Context, id string) (*model.BillingEventRecord, error)
}
