package repository

import (
	"context"
	"errors"
	"fmt"

	domainRepo "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// unitOfWork runs store calls inside one database transaction
type unitOfWork struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewUnitOfWork creates a gorm backed unit of work
func NewUnitOfWork(db *gorm.DB, logger *zap.Logger) domainRepo.UnitOfWork {
	return &unitOfWork{
		db:     db,
		logger: logger,
	}
}

// Within runs fn in a transaction. Errors from fn are returned unwrapped so
// callers can classify them.
func (u *unitOfWork) Within(ctx context.Context, fn func(domainRepo.Stores) error) error {
	var fnErr error
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(newStores(tx, u.logger))
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Stores returns stores bound to the connection pool
func (u *unitOfWork) Stores() domainRepo.Stores {
	return newStores(u.db, u.logger)
}

func newStores(db *gorm.DB, logger *zap.Logger) domainRepo.Stores {
	return domainRepo.Stores{
		Events:   NewEventRepository(db, logger),
		Ledger:   NewLedgerRepository(db, logger),
		Profiles: NewProfileRepository(db, logger),
		Payments: NewPaymentRepository(db, logger),
		Listings: NewListingRepository(db, logger),
	}
}

// translate maps driver errors onto repository sentinels
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", domainRepo.ErrDuplicate, err)
	}
	return err
}

func paginate(db *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		db = db.Limit(limit)
	}
	if offset > 0 {
		db = db.Offset(offset)
	}
	return db
}
