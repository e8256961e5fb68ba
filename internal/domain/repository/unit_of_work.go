package repository

import "context"

// Stores groups the repositories that take part in one unit of work.
type Stores struct {
	Events   EventRepository
	Ledger   LedgerRepository
	Profiles ProfileRepository
	Payments PaymentRepository
	Listings ListingRepository
}

// UnitOfWork runs a function against stores that commit or roll back together.
type UnitOfWork interface {
	// Within runs fn in a single transaction. The transaction commits when fn
	// returns nil and rolls back otherwise; the error of fn is returned as is.
	Within(ctx context.Context, fn func(Stores) error) error

	// Stores returns stores that run each call on its own.
	Stores() Stores
}
