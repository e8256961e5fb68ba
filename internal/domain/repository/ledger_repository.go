package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
)

// LedgerRepository is the append-only store of credit deltas. There is no
// update or delete.
type LedgerRepository interface {
	// Insert appends one row. Zero deltas are rejected.
	Insert(ctx context.Context, entry *model.LedgerEntry) error

	// SumByUser folds all of the user's deltas. Zero when the user has no rows.
	SumByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// ListByUser returns the user's rows newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.LedgerEntry, error)

	// CountByUser returns the number of rows the user has.
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
