package stripe

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/catalog"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"
)

// Gateway creates customers, checkout sessions and portal sessions.
type Gateway struct {
	api    *client.API
	logger *zap.Logger
}

var _ usecase.PaymentGateway = (*Gateway)(nil)

// NewGateway creates a gateway with its own API client.
func NewGateway(secretKey string, logger *zap.Logger) *Gateway {
	return NewGatewayWithBackends(secretKey, nil, logger)
}

// NewGatewayWithBackends creates a gateway talking to custom backends.
func NewGatewayWithBackends(secretKey string, backends *stripeapi.Backends, logger *zap.Logger) *Gateway {
	return &Gateway{
		api:    client.New(secretKey, backends),
		logger: logger,
	}
}

// CreateCustomer creates a Stripe customer tagged with the user id.
func (g *Gateway) CreateCustomer(ctx context.Context, userID uuid.UUID, email string) (string, error) {
	params := &stripeapi.CustomerParams{}
	params.Context = ctx
	if email != "" {
		params.Email = stripeapi.String(email)
	}
	params.AddMetadata(MetadataUserID, userID.String())

	c, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create customer: %w", err)
	}

	g.logger.Info("Stripe customer created",
		zap.String("user_id", userID.String()),
		zap.String("customer_id", c.ID))
	return c.ID, nil
}

// CreateCheckoutSession creates a hosted checkout page. The user and price
// are written to metadata so the resulting webhooks can be attributed.
func (g *Gateway) CreateCheckoutSession(ctx context.Context, req usecase.CheckoutSessionRequest) (*usecase.CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionParams{
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				Price:    stripeapi.String(req.Price.PriceID),
				Quantity: stripeapi.Int64(1),
			},
		},
		ClientReferenceID: stripeapi.String(req.UserID.String()),
		SuccessURL:        stripeapi.String(req.SuccessURL),
		CancelURL:         stripeapi.String(req.CancelURL),
	}
	params.Context = ctx
	if req.CustomerID != "" {
		params.Customer = stripeapi.String(req.CustomerID)
	}
	params.AddMetadata(MetadataUserID, req.UserID.String())
	params.AddMetadata(MetadataPriceID, req.Price.PriceID)

	if req.Price.Kind == catalog.PriceKindPlan {
		params.Mode = stripeapi.String(string(stripeapi.CheckoutSessionModeSubscription))
		params.SubscriptionData = &stripeapi.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				MetadataUserID:  req.UserID.String(),
				MetadataPriceID: req.Price.PriceID,
			},
		}
	} else {
		params.Mode = stripeapi.String(string(stripeapi.CheckoutSessionModePayment))
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &usecase.CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// CreatePortalSession creates a billing portal session for a customer.
func (g *Gateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripeapi.BillingPortalSessionParams{
		Customer:  stripeapi.String(customerID),
		ReturnURL: stripeapi.String(returnURL),
	}
	params.Context = ctx

	ps, err := g.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create portal session: %w", err)
	}
	return ps.URL, nil
}
