package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/catalog"
	domainErrors "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/errors"
	domainRepo "github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/repository"
	"go.uber.org/zap"
)

// PaymentGateway creates hosted payment pages at the payment provider.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, userID uuid.UUID, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

// CheckoutSessionRequest describes the checkout page to create.
type CheckoutSessionRequest struct {
	UserID     uuid.UUID
	CustomerID string
	Price      catalog.Price
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is a created checkout page.
type CheckoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"url"`
}

// CheckoutURLs are the pages the provider sends the user back to.
type CheckoutURLs struct {
	SuccessURL string
	CancelURL  string
	PortalURL  string
}

// CheckoutService starts purchases and opens the billing portal.
type CheckoutService struct {
	uow     domainRepo.UnitOfWork
	catalog *catalog.Catalog
	gateway PaymentGateway
	urls    CheckoutURLs
	logger  *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(uow domainRepo.UnitOfWork, cat *catalog.Catalog, gateway PaymentGateway, urls CheckoutURLs, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		uow:     uow,
		catalog: cat,
		gateway: gateway,
		urls:    urls,
		logger:  logger,
	}
}

// Plans lists the purchasable prices.
func (s *CheckoutService) Plans() []catalog.Price {
	return s.catalog.List("")
}

// StartCheckout creates a checkout session for priceID, creating the
// provider customer on first purchase.
func (s *CheckoutService) StartCheckout(ctx context.Context, userID uuid.UUID, email, priceID string) (*CheckoutSession, error) {
	price, ok := s.catalog.Lookup(priceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrUnknownPrice, priceID)
	}

	customerID, err := s.ensureCustomer(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutSessionRequest{
		UserID:     userID,
		CustomerID: customerID,
		Price:      price,
		SuccessURL: s.urls.SuccessURL,
		CancelURL:  s.urls.CancelURL,
	})
	if err != nil {
		s.logger.Error("Failed to create checkout session",
			zap.String("user_id", userID.String()),
			zap.String("price_id", priceID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.logger.Info("Checkout session created",
		zap.String("user_id", userID.String()),
		zap.String("price_id", priceID),
		zap.String("session_id", session.ID))
	return session, nil
}

// OpenPortal returns the billing portal URL of a user who has bought before.
func (s *CheckoutService) OpenPortal(ctx context.Context, userID uuid.UUID) (string, error) {
	profile, err := s.uow.Stores().Profiles.Get(ctx, userID)
	if err != nil {
		return "", domainErrors.NewTransientError("get profile", err)
	}
	if profile == nil || profile.CustomerRef == nil {
		return "", domainErrors.ErrNoCustomerMapping
	}

	url, err := s.gateway.CreatePortalSession(ctx, *profile.CustomerRef, s.urls.PortalURL)
	if err != nil {
		s.logger.Error("Failed to create portal session",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return url, nil
}

// ensureCustomer returns the user's provider customer, creating and linking
// one when missing. The provider call happens outside any transaction.
func (s *CheckoutService) ensureCustomer(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	profile, err := s.uow.Stores().Profiles.Get(ctx, userID)
	if err != nil {
		return "", domainErrors.NewTransientError("get profile", err)
	}
	if profile != nil && profile.CustomerRef != nil {
		return *profile.CustomerRef, nil
	}

	created, err := s.gateway.CreateCustomer(ctx, userID, email)
	if err != nil {
		s.logger.Error("Failed to create customer",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return "", fmt.Errorf("failed to create customer: %w", err)
	}

	customerID := created
	err = s.uow.Within(ctx, func(st domainRepo.Stores) error {
		locked, err := st.Profiles.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if locked.CustomerRef != nil {
			// A concurrent checkout linked first.
			customerID = *locked.CustomerRef
			return nil
		}
		locked.CustomerRef = &created
		return st.Profiles.Save(ctx, locked)
	})
	if err != nil {
		return "", domainErrors.NewTransientError("link customer", err)
	}

	s.logger.Info("Customer linked",
		zap.String("user_id", userID.String()),
		zap.String("customer_id", customerID))
	return customerID, nil
}
