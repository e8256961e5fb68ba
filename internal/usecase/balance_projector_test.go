package usecase_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/adapter/repository/memory"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/entity"
	domainErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/errors"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFold_Commutative(t *testing.T) {
	deltas := []int64{15, -3, 50, -12, 7, 100, -1}
	var want int64
	entries := make([]model.LedgerEntry, len(deltas))
	for i, d := range deltas {
		want += d
		entries[i] = model.LedgerEntry{Delta: d}
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(entries), func(a, b int) { entries[a], entries[b] = entries[b], entries[a] })
		assert.Equal(t, want, usecase.Fold(entries))
	}

	assert.Zero(t, usecase.Fold(nil))
}

func TestBalanceProjector_BalanceOf(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	deltas := []int64{15, -3, 50, -12}

	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}}
	for _, order := range orders {
		store := memory.New()
		projector := usecase.NewBalanceProjector(store, zap.NewNop())
		for _, i := range order {
			require.NoError(t, store.Stores().Ledger.Insert(ctx, &model.LedgerEntry{
				UserID: userID,
				Delta:  deltas[i],
				Reason: model.LedgerReasonAdminAdjustment,
			}))
		}

		balance, err := projector.BalanceOf(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(50), balance)
	}

	empty := usecase.NewBalanceProjector(memory.New(), zap.NewNop())
	balance, err := empty.BalanceOf(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestBalanceProjector_SetBalanceTo(t *testing.T) {
	ctx := context.Background()

	t.Run("reaches any non-negative target", func(t *testing.T) {
		for _, start := range []int64{0, 15, 120} {
			for _, target := range []int64{0, 1, 15, 500} {
				store := memory.New()
				projector := usecase.NewBalanceProjector(store, zap.NewNop())
				userID := uuid.New()
				if start != 0 {
					require.NoError(t, store.Stores().Ledger.Insert(ctx, &model.LedgerEntry{
						UserID: userID, Delta: start, Reason: model.LedgerReasonPurchase,
					}))
				}

				entry, err := projector.SetBalanceTo(ctx, userID, target, model.LedgerReasonCorrection)
				require.NoError(t, err)

				balance, err := projector.BalanceOf(ctx, userID)
				require.NoError(t, err)
				assert.Equal(t, target, balance)

				if start == target {
					assert.Nil(t, entry)
				} else {
					require.NotNil(t, entry)
					assert.Equal(t, target-start, entry.Delta)
					assert.Equal(t, model.LedgerReasonCorrection, entry.Reason)
				}
			}
		}
	})

	t.Run("no-op inserts no rows", func(t *testing.T) {
		store := memory.New()
		projector := usecase.NewBalanceProjector(store, zap.NewNop())
		userID := uuid.New()
		require.NoError(t, store.Stores().Ledger.Insert(ctx, &model.LedgerEntry{
			UserID: userID, Delta: 15, Reason: model.LedgerReasonPurchase,
		}))

		entry, err := projector.SetBalanceTo(ctx, userID, 15, model.LedgerReasonAdminAdjustment)
		require.NoError(t, err)
		assert.Nil(t, entry)
		assert.Len(t, ledgerOf(t, store, userID), 1)
	})

	t.Run("rejects negative targets and foreign reasons", func(t *testing.T) {
		projector := usecase.NewBalanceProjector(memory.New(), zap.NewNop())
		userID := uuid.New()

		_, err := projector.SetBalanceTo(ctx, userID, -1, model.LedgerReasonCorrection)
		assert.ErrorIs(t, err, domainErrors.ErrNegativeTarget)

		_, err = projector.SetBalanceTo(ctx, userID, 10, model.LedgerReasonPurchase)
		assert.ErrorIs(t, err, domainErrors.ErrInvalidReason)
	})
}

func TestBalanceProjector_History(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	projector := usecase.NewBalanceProjector(store, zap.NewNop())
	userID := uuid.New()

	for i := 1; i <= 5; i++ {
		require.NoError(t, store.Stores().Ledger.Insert(ctx, &model.LedgerEntry{
			UserID: userID, Delta: int64(i), Reason: model.LedgerReasonPurchase,
		}))
	}

	page, err := projector.History(ctx, userID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page.Entries, 2)
	assert.Equal(t, int64(5), page.Total)
	assert.True(t, page.HasMore)
	assert.Equal(t, int64(5), page.Entries[0].Delta)

	page, err = projector.History(ctx, userID, 0, 4)
	require.NoError(t, err)
	assert.Len(t, page.Entries, 1)
	assert.Equal(t, 20, page.Limit)
	assert.False(t, page.HasMore)

	page, err = projector.History(ctx, uuid.New(), 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, page.Entries)
	assert.Empty(t, page.Entries)
}

func TestBalanceProjector_OverridePlan(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	projector := usecase.NewBalanceProjector(store, zap.NewNop())
	userID := uuid.New()

	profile, err := projector.OverridePlan(ctx, userID, entity.PlanTierPremium, entity.PlanStatusActive)
	require.NoError(t, err)
	assert.Equal(t, entity.PlanTierPremium, profile.PlanTier)
	assert.Empty(t, ledgerOf(t, store, userID))

	got, err := projector.Profile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, entity.PlanStatusActive, got.PlanStatus)

	_, err = projector.OverridePlan(ctx, userID, "gold", entity.PlanStatusActive)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidPlan)
}

func TestBalanceProjector_Payments(t *testing.T) {
	ctx := context.Background()
	engine, projector, _ := newEngine(t)
	userID := uuid.New()

	_, err := engine.Process(ctx, oneTimeCheckout("evt_pay_1", userID, "price_credits_15"))
	require.NoError(t, err)

	payments, err := projector.Payments(ctx, userID, 0, 0)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "evt_pay_1", payments[0].EventID)

	payments, err = projector.Payments(ctx, uuid.New(), 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, payments)
	assert.Empty(t, payments)
}
