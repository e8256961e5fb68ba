// Package stripe adapts Stripe to the billing domain: it turns signed webhook
// payloads into billing events and creates hosted checkout pages.
package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/entity"
	stripeapi "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
)

var (
	// ErrInvalidSignature is returned for payloads that fail verification.
	ErrInvalidSignature = errors.New("webhook signature verification failed")

	// ErrMalformedPayload is returned for verified payloads that do not
	// decode into the shape their type promises.
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// Metadata keys written on sessions and subscriptions created by the gateway.
const (
	MetadataUserID  = "user_id"
	MetadataPriceID = "price_id"
)

// Translator verifies Stripe webhooks and maps them onto billing events.
type Translator struct {
	webhookSecret string
	logger        *zap.Logger
}

// NewTranslator creates a new webhook translator
func NewTranslator(webhookSecret string, logger *zap.Logger) *Translator {
	return &Translator{
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// Translate verifies the payload signature and decodes the event. Event
// types the domain does not handle come back with their Stripe type as kind.
func (t *Translator) Translate(payload []byte, signature string) (entity.BillingEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, t.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return entity.BillingEvent{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	billing := entity.BillingEvent{
		ID:        event.ID,
		Kind:      entity.EventKind(event.Type),
		CreatedAt: time.Unix(event.Created, 0).UTC(),
	}
	if event.Data == nil {
		return billing, nil
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var session stripeapi.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return billing, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		if !sessionSettled(&session) {
			t.logger.Info("Checkout completed without payment, waiting for settlement",
				zap.String("event_id", event.ID),
				zap.String("session_id", session.ID))
			billing.Kind = entity.EventKind("checkout.session.unpaid")
			return billing, nil
		}
		billing.Kind = entity.EventKindCheckoutCompleted
		billing.Checkout = checkoutFromSession(&session)

	case "invoice.paid":
		var invoice stripeapi.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return billing, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		if invoice.Subscription == nil {
			t.logger.Info("Ignoring invoice without subscription",
				zap.String("event_id", event.ID),
				zap.String("invoice_id", invoice.ID))
			billing.Kind = entity.EventKind("invoice.paid.one_off")
			return billing, nil
		}
		billing.Kind = entity.EventKindInvoicePaid
		billing.Invoice = invoiceFromStripe(&invoice)

	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripeapi.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return billing, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		billing.Kind = entity.EventKindSubscriptionUpdated
		billing.Subscription = subscriptionFromStripe(&sub)

	case "customer.subscription.deleted":
		var sub stripeapi.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return billing, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		billing.Kind = entity.EventKindSubscriptionDeleted
		billing.Subscription = subscriptionFromStripe(&sub)

	default:
		return billing, nil
	}

	if err := billing.Validate(); err != nil {
		return billing, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return billing, nil
}

func sessionSettled(session *stripeapi.CheckoutSession) bool {
	return session.PaymentStatus != stripeapi.CheckoutSessionPaymentStatusUnpaid
}

func checkoutFromSession(session *stripeapi.CheckoutSession) *entity.CheckoutCompleted {
	checkout := &entity.CheckoutCompleted{
		SessionID:   session.ID,
		Mode:        entity.CheckoutModeOneTime,
		PriceID:     session.Metadata[MetadataPriceID],
		AmountTotal: session.AmountTotal,
		Currency:    string(session.Currency),
	}
	if session.Mode == stripeapi.CheckoutSessionModeSubscription {
		checkout.Mode = entity.CheckoutModeSubscription
	}
	if session.Customer != nil {
		checkout.CustomerID = session.Customer.ID
	}
	if session.Subscription != nil {
		checkout.SubscriptionID = session.Subscription.ID
	}

	checkout.UserID = session.Metadata[MetadataUserID]
	if checkout.UserID == "" {
		checkout.UserID = session.ClientReferenceID
	}
	return checkout
}

func invoiceFromStripe(invoice *stripeapi.Invoice) *entity.InvoicePaid {
	paid := &entity.InvoicePaid{
		InvoiceID:      invoice.ID,
		SubscriptionID: invoice.Subscription.ID,
		BillingReason:  string(invoice.BillingReason),
		AmountPaid:     invoice.AmountPaid,
		Currency:       string(invoice.Currency),
	}
	if invoice.Customer != nil {
		paid.CustomerID = invoice.Customer.ID
	}
	if invoice.Lines != nil {
		for _, line := range invoice.Lines.Data {
			if line != nil && line.Price != nil {
				paid.PriceID = line.Price.ID
				break
			}
		}
	}
	if invoice.SubscriptionDetails != nil {
		paid.UserID = invoice.SubscriptionDetails.Metadata[MetadataUserID]
	}
	return paid
}

func subscriptionFromStripe(sub *stripeapi.Subscription) *entity.SubscriptionChange {
	change := &entity.SubscriptionChange{
		SubscriptionID: sub.ID,
		UserID:         sub.Metadata[MetadataUserID],
		ProviderStatus: string(sub.Status),
	}
	if sub.Customer != nil {
		change.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item != nil && item.Price != nil {
				change.PriceID = item.Price.ID
				break
			}
		}
	}
	return change
}
