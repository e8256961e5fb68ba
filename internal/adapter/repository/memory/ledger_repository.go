package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
)

type ledgerRepository struct{ v *view }

func (r ledgerRepository) Insert(ctx context.Context, entry *model.LedgerEntry) error {
	if entry.Delta == 0 {
		return repository.ErrZeroDelta
	}

	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	st.nextLedgerID++
	entry.ID = st.nextLedgerID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.v.store.now()
	}
	st.ledger = append(st.ledger, *entry)
	return nil
}

func (r ledgerRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	var sum int64
	for _, e := range st.ledger {
		if e.UserID == userID {
			sum += e.Delta
		}
	}
	return sum, nil
}

func (r ledgerRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.LedgerEntry, error) {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var rows []model.LedgerEntry
	for _, e := range st.ledger {
		if e.UserID == userID {
			rows = append(rows, e)
		}
	}
	rows = newestFirst(rows, func(e model.LedgerEntry) time.Time { return e.CreatedAt })

	start, end := page(len(rows), limit, offset)
	result := make([]*model.LedgerEntry, 0, end-start)
	for i := start; i < end; i++ {
		e := rows[i]
		result = append(result, &e)
	}
	return result, nil
}

func (r ledgerRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	st, release, err := r.v.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	var n int64
	for _, e := range st.ledger {
		if e.UserID == userID {
			n++
		}
	}
	return n, nil
}
