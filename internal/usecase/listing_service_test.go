package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/adapter/repository/memory"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/entity"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/model"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	pkgErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockGenerator is a mock implementation of usecase.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, input usecase.ListingInput) (*usecase.GeneratedCopy, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.GeneratedCopy), args.Error(1)
}

func sampleListing() usecase.ListingInput {
	return usecase.ListingInput{
		Kind:       model.ListingKindSale,
		Title:      "Sunny bungalow",
		Address:    "12 Elm Street",
		Bedrooms:   3,
		Bathrooms:  2,
		SquareFeet: 1400,
		Features:   []string{"garden", "garage"},
	}
}

func fund(t *testing.T, store *memory.Store, userID uuid.UUID, credits int64) {
	t.Helper()
	require.NoError(t, store.Stores().Ledger.Insert(context.Background(), &model.LedgerEntry{
		UserID: userID, Delta: credits, Reason: model.LedgerReasonPurchase,
	}))
}

func TestListingService_Generate(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("debits one credit and stores the listing", func(t *testing.T) {
		store := memory.New()
		generator := new(MockGenerator)
		service := usecase.NewListingService(store, generator, 1, logger)
		projector := usecase.NewBalanceProjector(store, logger)
		userID := uuid.New()
		fund(t, store, userID, 3)

		generator.On("Generate", mock.Anything, sampleListing()).
			Return(&usecase.GeneratedCopy{Text: "Welcome home.", Model: "gpt-4o-mini"}, nil)

		listing, err := service.Generate(ctx, userID, sampleListing())
		require.NoError(t, err)
		assert.Equal(t, "Welcome home.", listing.Copy)
		assert.Equal(t, int64(1), listing.CreditsSpent)
		assert.Equal(t, "12 Elm Street", listing.Facts["address"])

		balance, err := projector.BalanceOf(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), balance)

		listings, err := service.List(ctx, userID, 0, 0)
		require.NoError(t, err)
		require.Len(t, listings, 1)
		assert.Equal(t, listing.ID, listings[0].ID)

		generator.AssertExpectations(t)
	})

	t.Run("refunds when generation fails", func(t *testing.T) {
		store := memory.New()
		generator := new(MockGenerator)
		service := usecase.NewListingService(store, generator, 1, logger)
		projector := usecase.NewBalanceProjector(store, logger)
		userID := uuid.New()
		fund(t, store, userID, 1)

		generator.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

		_, err := service.Generate(ctx, userID, sampleListing())
		require.Error(t, err)
		assert.Equal(t, pkgErrors.ErrUnavailable, pkgErrors.CodeOf(err))

		balance, err := projector.BalanceOf(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), balance)

		rows := ledgerOf(t, store, userID)
		require.Len(t, rows, 3)
		assert.Equal(t, model.LedgerReasonRefund, rows[0].Reason)
		assert.Equal(t, model.LedgerReasonUsage, rows[1].Reason)
	})

	t.Run("requires credits", func(t *testing.T) {
		store := memory.New()
		generator := new(MockGenerator)
		service := usecase.NewListingService(store, generator, 1, logger)

		_, err := service.Generate(ctx, uuid.New(), sampleListing())
		require.Error(t, err)
		assert.Equal(t, pkgErrors.ErrPaymentRequired, pkgErrors.CodeOf(err))
		generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	})

	t.Run("premium is not charged", func(t *testing.T) {
		store := memory.New()
		generator := new(MockGenerator)
		service := usecase.NewListingService(store, generator, 1, logger)
		userID := uuid.New()
		setProfile(t, store, userID, entity.PlanTierPremium, entity.PlanStatusActive)

		generator.On("Generate", mock.Anything, mock.Anything).
			Return(&usecase.GeneratedCopy{Text: "Luxury awaits.", Model: "gpt-4o-mini"}, nil)

		listing, err := service.Generate(ctx, userID, sampleListing())
		require.NoError(t, err)
		assert.Zero(t, listing.CreditsSpent)
		assert.Empty(t, ledgerOf(t, store, userID))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		generator := new(MockGenerator)
		service := usecase.NewListingService(memory.New(), generator, 1, logger)

		input := sampleListing()
		input.Kind = "auction"
		_, err := service.Generate(ctx, uuid.New(), input)
		require.Error(t, err)
		assert.Equal(t, pkgErrors.ErrInvalidArgument, pkgErrors.CodeOf(err))
	})
}
