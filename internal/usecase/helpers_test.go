package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/adapter/repository/memory"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/catalog"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/entity"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	domainRepo "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
tiers:
  starter:
    monthly_credits: 50
  premium:
    unlimited: true
prices:
  - {price_id: price_credits_15, kind: credits, credits: 15, amount: "9.99", currency: usd}
  - {price_id: price_starter, kind: plan, tier: starter, amount: "19.00", currency: usd}
  - {price_id: price_premium, kind: plan, tier: premium, amount: "49.00", currency: usd}
`

func mustCatalog(t *testing.T, doc string) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(doc))
	require.NoError(t, err)
	return c
}

// MockPublisher is a mock implementation of messaging.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

// failingUnitOfWork makes ledger inserts fail inside units of work.
type failingUnitOfWork struct {
	domainRepo.UnitOfWork
	err error
}

func (f failingUnitOfWork) Within(ctx context.Context, fn func(domainRepo.Stores) error) error {
	return f.UnitOfWork.Within(ctx, func(s domainRepo.Stores) error {
		s.Ledger = failingLedger{LedgerRepository: s.Ledger, err: f.err}
		return fn(s)
	})
}

type failingLedger struct {
	domainRepo.LedgerRepository
	err error
}

func (f failingLedger) Insert(context.Context, *model.LedgerEntry) error {
	return f.err
}

func oneTimeCheckout(id string, userID uuid.UUID, priceID string) entity.BillingEvent {
	return entity.BillingEvent{
		ID:        id,
		Kind:      entity.EventKindCheckoutCompleted,
		CreatedAt: time.Now(),
		Checkout: &entity.CheckoutCompleted{
			SessionID:   "cs_" + id,
			Mode:        entity.CheckoutModeOneTime,
			UserID:      userID.String(),
			CustomerID:  "cus_" + userID.String()[:8],
			PriceID:     priceID,
			AmountTotal: 999,
			Currency:    "usd",
		},
	}
}

func subscriptionUpdated(id string, userID uuid.UUID, priceID, status string, at time.Time) entity.BillingEvent {
	return entity.BillingEvent{
		ID:        id,
		Kind:      entity.EventKindSubscriptionUpdated,
		CreatedAt: at,
		Subscription: &entity.SubscriptionChange{
			SubscriptionID: "sub_1",
			UserID:         userID.String(),
			PriceID:        priceID,
			ProviderStatus: status,
		},
	}
}

func subscriptionDeleted(id string, userID uuid.UUID, at time.Time) entity.BillingEvent {
	return entity.BillingEvent{
		ID:        id,
		Kind:      entity.EventKindSubscriptionDeleted,
		CreatedAt: at,
		Subscription: &entity.SubscriptionChange{
			SubscriptionID: "sub_1",
			UserID:         userID.String(),
			ProviderStatus: "canceled",
		},
	}
}

func invoicePaid(id string, userID uuid.UUID, priceID, reason string) entity.BillingEvent {
	return entity.BillingEvent{
		ID:        id,
		Kind:      entity.EventKindInvoicePaid,
		CreatedAt: time.Now(),
		Invoice: &entity.InvoicePaid{
			InvoiceID:      "in_" + id,
			SubscriptionID: "sub_1",
			UserID:         userID.String(),
			PriceID:        priceID,
			BillingReason:  reason,
			AmountPaid:     1900,
			Currency:       "usd",
		},
	}
}

func ledgerOf(t *testing.T, store *memory.Store, userID uuid.UUID) []*model.LedgerEntry {
	t.Helper()
	rows, err := store.Stores().Ledger.ListByUser(context.Background(), userID, 0, 0)
	require.NoError(t, err)
	return rows
}

func setProfile(t *testing.T, store *memory.Store, userID uuid.UUID, tier entity.PlanTier, status entity.PlanStatus) {
	t.Helper()
	p := model.NewProfile(userID)
	p.PlanTier = tier
	p.PlanStatus = status
	require.NoError(t, store.Stores().Profiles.Save(context.Background(), p))
}
