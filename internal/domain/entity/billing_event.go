package entity

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// EventKind enumerates the billing events the reconciliation engine understands.
type EventKind string

const (
	EventKindCheckoutCompleted   EventKind = "checkout_completed"
	EventKindInvoicePaid         EventKind = "invoice_paid"
	EventKindSubscriptionUpdated EventKind = "subscription_updated"
	EventKindSubscriptionDeleted EventKind = "subscription_deleted"
)

// Recognized reports whether k is one of the handled kinds.
func (k EventKind) Recognized() bool {
	switch k {
	case EventKindCheckoutCompleted, EventKindInvoicePaid, EventKindSubscriptionUpdated, EventKindSubscriptionDeleted:
		return true
	}
	return false
}

// CheckoutMode distinguishes one-time credit purchases from subscription sign-ups.
type CheckoutMode string

const (
	CheckoutModeOneTime      CheckoutMode = "one_time"
	CheckoutModeSubscription CheckoutMode = "subscription"
)

// BillingEvent is one verified payment provider notification. Exactly one of
// the payload pointers is set, selected by Kind.
type BillingEvent struct {
	ID        string    `json:"id" validate:"required"`
	Kind      EventKind `json:"kind" validate:"required"`
	CreatedAt time.Time `json:"created_at"`

	Checkout     *CheckoutCompleted  `json:"checkout,omitempty"`
	Invoice      *InvoicePaid        `json:"invoice,omitempty"`
	Subscription *SubscriptionChange `json:"subscription,omitempty"`
}

// CheckoutCompleted is the payload of EventKindCheckoutCompleted.
type CheckoutCompleted struct {
	SessionID      string       `json:"session_id" validate:"required"`
	Mode           CheckoutMode `json:"mode" validate:"required,oneof=one_time subscription"`
	UserID         string       `json:"user_id,omitempty"`
	CustomerID     string       `json:"customer_id,omitempty"`
	PriceID        string       `json:"price_id" validate:"required"`
	SubscriptionID string       `json:"subscription_id,omitempty" validate:"required_if=Mode subscription"`
	AmountTotal    int64        `json:"amount_total" validate:"gte=0"`
	Currency       string       `json:"currency,omitempty"`
}

// InvoicePaid is the payload of EventKindInvoicePaid.
type InvoicePaid struct {
	InvoiceID      string `json:"invoice_id" validate:"required"`
	CustomerID     string `json:"customer_id,omitempty"`
	SubscriptionID string `json:"subscription_id" validate:"required"`
	UserID         string `json:"user_id,omitempty"`
	PriceID        string `json:"price_id" validate:"required"`
	BillingReason  string `json:"billing_reason,omitempty"`
	AmountPaid     int64  `json:"amount_paid" validate:"gte=0"`
	Currency       string `json:"currency,omitempty"`
}

// Billing reason reported for the first invoice of a new subscription.
const BillingReasonSubscriptionCreate = "subscription_create"

// SubscriptionChange is the payload of the subscription lifecycle kinds.
type SubscriptionChange struct {
	SubscriptionID string `json:"subscription_id" validate:"required"`
	CustomerID     string `json:"customer_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	PriceID        string `json:"price_id,omitempty"`
	ProviderStatus string `json:"provider_status" validate:"required"`
}

var validate = validator.New()

// Validate checks that the event carries the payload its kind requires and
// that the payload satisfies its schema. Unrecognized kinds only need an id;
// the engine acknowledges them without looking at the payload.
func (e *BillingEvent) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("invalid billing event: %w", err)
	}

	if !e.Kind.Recognized() {
		return nil
	}

	var payload interface{}
	switch e.Kind {
	case EventKindCheckoutCompleted:
		if e.Checkout == nil || e.Invoice != nil || e.Subscription != nil {
			return fmt.Errorf("invalid billing event %s: %s requires only a checkout payload", e.ID, e.Kind)
		}
		payload = e.Checkout
	case EventKindInvoicePaid:
		if e.Invoice == nil || e.Checkout != nil || e.Subscription != nil {
			return fmt.Errorf("invalid billing event %s: %s requires only an invoice payload", e.ID, e.Kind)
		}
		payload = e.Invoice
	case EventKindSubscriptionUpdated, EventKindSubscriptionDeleted:
		if e.Subscription == nil || e.Checkout != nil || e.Invoice != nil {
			return fmt.Errorf("invalid billing event %s: %s requires only a subscription payload", e.ID, e.Kind)
		}
		if e.Kind == EventKindSubscriptionUpdated && e.Subscription.PriceID == "" {
			return fmt.Errorf("invalid billing event %s: subscription update without price", e.ID)
		}
		payload = e.Subscription
	}

	if err := validate.Struct(payload); err != nil {
		return fmt.Errorf("invalid %s payload for event %s: %w", e.Kind, e.ID, err)
	}
	return nil
}

// UserHint returns the explicit user id and the provider customer id carried
// by the payload, either of which may be empty.
func (e *BillingEvent) UserHint() (userID, customerID string) {
	switch {
	case e.Checkout != nil:
		return e.Checkout.UserID, e.Checkout.CustomerID
	case e.Invoice != nil:
		return e.Invoice.UserID, e.Invoice.CustomerID
	case e.Subscription != nil:
		return e.Subscription.UserID, e.Subscription.CustomerID
	}
	return "", ""
}
