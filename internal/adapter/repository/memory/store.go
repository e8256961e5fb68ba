// Package memory is an in-process implementation of the stores. A unit of
// work holds the store mutex for its whole duration and works on a copy of
// the state that replaces the live state on commit, which gives the same
// claim and rollback semantics as the database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
)

type state struct {
	events   map[string]model.BillingEventRecord
	ledger   []model.LedgerEntry
	profiles map[uuid.UUID]model.Profile
	payments []model.Payment
	listings []model.Listing

	nextLedgerID  int64
	nextPaymentID int64
}

func newState() *state {
	return &state{
		events:   make(map[string]model.BillingEventRecord),
		profiles: make(map[uuid.UUID]model.Profile),
	}
}

func (s *state) clone() *state {
	c := &state{
		events:        make(map[string]model.BillingEventRecord, len(s.events)),
		ledger:        append([]model.LedgerEntry(nil), s.ledger...),
		profiles:      make(map[uuid.UUID]model.Profile, len(s.profiles)),
		payments:      append([]model.Payment(nil), s.payments...),
		listings:      append([]model.Listing(nil), s.listings...),
		nextLedgerID:  s.nextLedgerID,
		nextPaymentID: s.nextPaymentID,
	}
	for k, v := range s.events {
		c.events[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	return c
}

var _ repository.UnitOfWork = (*Store)(nil)

// Store keeps all rows in memory. Calling Stores from inside Within deadlocks.
type Store struct {
	mu    sync.Mutex
	state *state
	now   func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		state: newState(),
		now:   time.Now,
	}
}

// Within runs fn against a private copy of the state and publishes the copy
// when fn succeeds and ctx is still live.
func (s *Store) Within(ctx context.Context, fn func(repository.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(s.stores(&view{store: s, tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.state = work
	return nil
}

// Stores returns stores where each call is its own transaction.
func (s *Store) Stores() repository.Stores {
	return s.stores(&view{store: s})
}

func (s *Store) stores(v *view) repository.Stores {
	return repository.Stores{
		Events:   eventRepository{v},
		Ledger:   ledgerRepository{v},
		Profiles: profileRepository{v},
		Payments: paymentRepository{v},
		Listings: listingRepository{v},
	}
}

// view resolves the state a call operates on: the transaction copy when
// inside Within, the live state under the mutex otherwise.
type view struct {
	store *Store
	tx    *state
}

func (v *view) acquire(ctx context.Context) (*state, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if v.tx != nil {
		return v.tx, func() {}, nil
	}
	v.store.mu.Lock()
	return v.store.state, v.store.mu.Unlock, nil
}

func page(n, limit, offset int) (int, int) {
	start := offset
	if start > n {
		start = n
	}
	if start < 0 {
		start = 0
	}
	end := start + limit
	if limit <= 0 || end > n {
		end = n
	}
	return start, end
}

// newestFirst orders by creation time descending keeping insertion order
// reversed for equal times.
func newestFirst[T any](rows []T, createdAt func(T) time.Time) []T {
	out := make([]T, len(rows))
	for i := range rows {
		out[len(rows)-1-i] = rows[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return createdAt(out[i]).After(createdAt(out[j]))
	})
	return out
}
