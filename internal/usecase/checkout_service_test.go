package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/adapter/repository/memory"
	domainErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/errors"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPaymentGateway is a mock implementation of usecase.PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCustomer(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	args := m.Called(ctx, userID, email)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, req usecase.CheckoutSessionRequest) (*usecase.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CheckoutSession), args.Error(1)
}

func (m *MockPaymentGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	args := m.Called(ctx, customerID, returnURL)
	return args.String(0), args.Error(1)
}

func TestCheckoutService(t *testing.T) {
	ctx := context.Background()
	urls := usecase.CheckoutURLs{
		SuccessURL: "https://app.example.com/billing/success",
		CancelURL:  "https://app.example.com/billing",
		PortalURL:  "https://app.example.com/account",
	}

	t.Run("creates and links the customer once", func(t *testing.T) {
		store := memory.New()
		gateway := new(MockPaymentGateway)
		service := usecase.NewCheckoutService(store, mustCatalog(t, testCatalog), gateway, urls, zap.NewNop())
		userID := uuid.New()

		gateway.On("CreateCustomer", mock.Anything, userID, "agent@example.com").Return("cus_new", nil).Once()
		gateway.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req usecase.CheckoutSessionRequest) bool {
			return req.CustomerID == "cus_new" && req.Price.PriceID == "price_credits_15" && req.UserID == userID
		})).Return(&usecase.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/cs_1"}, nil).Twice()

		session, err := service.StartCheckout(ctx, userID, "agent@example.com", "price_credits_15")
		require.NoError(t, err)
		assert.Equal(t, "cs_1", session.ID)

		_, err = service.StartCheckout(ctx, userID, "agent@example.com", "price_credits_15")
		require.NoError(t, err)

		profile, err := store.Stores().Profiles.Get(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, profile.CustomerRef)
		assert.Equal(t, "cus_new", *profile.CustomerRef)

		gateway.AssertExpectations(t)
	})

	t.Run("rejects prices outside the catalog", func(t *testing.T) {
		gateway := new(MockPaymentGateway)
		service := usecase.NewCheckoutService(memory.New(), mustCatalog(t, testCatalog), gateway, urls, zap.NewNop())

		_, err := service.StartCheckout(ctx, uuid.New(), "", "price_unknown")
		assert.ErrorIs(t, err, domainErrors.ErrUnknownPrice)
		gateway.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("portal requires a customer", func(t *testing.T) {
		store := memory.New()
		gateway := new(MockPaymentGateway)
		service := usecase.NewCheckoutService(store, mustCatalog(t, testCatalog), gateway, urls, zap.NewNop())
		userID := uuid.New()

		_, err := service.OpenPortal(ctx, userID)
		assert.ErrorIs(t, err, domainErrors.ErrNoCustomerMapping)

		gateway.On("CreateCustomer", mock.Anything, userID, "").Return("cus_portal", nil)
		gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(&usecase.CheckoutSession{ID: "cs_2"}, nil)
		gateway.On("CreatePortalSession", mock.Anything, "cus_portal", urls.PortalURL).Return("https://billing.stripe.com/p/1", nil)

		_, err = service.StartCheckout(ctx, userID, "", "price_starter")
		require.NoError(t, err)

		url, err := service.OpenPortal(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "https://billing.stripe.com/p/1", url)
	})

	t.Run("lists catalog plans", func(t *testing.T) {
		service := usecase.NewCheckoutService(memory.New(), mustCatalog(t, testCatalog), new(MockPaymentGateway), urls, zap.NewNop())
		assert.Len(t, service.Plans(), 3)
	})
}
