package stripe

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"
)

const testSecret = "whsec_test_secret"

const testUserID = "7b0e2f4e-4a7a-4b53-9d2e-1d2a3b4c5d6e"

func signedEvent(t *testing.T, id, eventType string, object map[string]interface{}) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"created":     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Unix(),
		"api_version": "2024-06-20",
		"data":        map[string]interface{}{"object": object},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  testSecret,
	})
	return signed.Payload, signed.Header
}

func TestTranslator_CheckoutCompleted(t *testing.T) {
	translator := NewTranslator(testSecret, zap.NewNop())

	body, header := signedEvent(t, "evt_checkout", "checkout.session.completed", map[string]interface{}{
		"id":             "cs_123",
		"object":         "checkout.session",
		"mode":           "payment",
		"payment_status": "paid",
		"customer":       "cus_123",
		"amount_total":   999,
		"currency":       "usd",
		"metadata":       map[string]string{"user_id": testUserID, "price_id": "price_credits_15"},
	})

	event, err := translator.Translate(body, header)
	require.NoError(t, err)
	assert.Equal(t, "evt_checkout", event.ID)
	assert.Equal(t, entity.EventKindCheckoutCompleted, event.Kind)
	assert.Equal(t, 2024, event.CreatedAt.Year())
	require.NotNil(t, event.Checkout)
	assert.Equal(t, entity.CheckoutModeOneTime, event.Checkout.Mode)
	assert.Equal(t, testUserID, event.Checkout.UserID)
	assert.Equal(t, "cus_123", event.Checkout.CustomerID)
	assert.Equal(t, "price_credits_15", event.Checkout.PriceID)
	assert.Equal(t, int64(999), event.Checkout.AmountTotal)
}

func TestTranslator_SubscriptionCheckoutUsesClientReference(t *testing.T) {
	translator := NewTranslator(testSecret, zap.NewNop())

	body, header := signedEvent(t, "evt_sub_checkout", "checkout.session.completed", map[string]interface{}{
		"id":                  "cs_456",
		"object":              "checkout.session",
		"mode":                "subscription",
		"payment_status":      "paid",
		"client_reference_id": testUserID,
		"subscription":        "sub_123",
		"metadata":            map[string]string{"price_id": "price_starter"},
	})

	event, err := translator.Translate(body, header)
	require.NoError(t, err)
	assert.Equal(t, entity.CheckoutModeSubscription, event.Checkout.Mode)
	assert.Equal(t, "sub_123", event.Checkout.SubscriptionID)
	assert.Equal(t, testUserID, event.Checkout.UserID)
}

func TestTranslator_UnpaidCheckoutIsNotACompletion(t *testing.T) {
	translator := NewTranslator(testSecret, zap.NewNop())

	body, header := signedEvent(t, "evt_unpaid", "checkout.session.completed", map[string]interface{}{
		"id":             "cs_789",
		"object":         "checkout.session",
		"mode":           "payment",
		"payment_status": "unpaid",
		"metadata":       map[string]string{"price_id": "price_credits_15"},
	})

	event, err := translator.Translate(body, header)
	require.NoError(t, err)
	assert.False(t, event.Kind.Recognized())
	assert.Nil(t, event.Checkout)
}

func TestTranslator_InvoicePaid(t *testing.T) {
	translator := NewTranslator(testSecret, zap.NewNop())

	body, header := signedEvent(t, "evt_invoice", "invoice.paid", map[string]interface{}{
		"id":             "in_123",
		"object":         "invoice",
		"customer":       "cus_123",
		"subscription":   "sub_123",
		"billing_reason": "subscription_cycle",
		"amount_paid":    1900,
		"currency":       "usd",
		"lines": map[string]interface{}{
			"object": "list",
			"data": []interface{}{
				map[string]interface{}{
					"id":     "il_1",
					"object": "line_item",
					"price":  map[string]interface{}{"id": "price_starter", "object": "price"},
				},
			},
		},
		"subscription_details": map[string]interface{}{
			"metadata": map[string]string{"user_id": testUserID},
		},
	})

	event, err := translator.Translate(body, header)
	require.NoError(t, err)
	assert.Equal(t, entity.EventKindInvoicePaid, event.Kind)
	require.NotNil(t, event.Invoice)
	assert.Equal(t, "price_starter", event.Invoice.PriceID)
	assert.Equal(t, "sub_123", event.Invoice.SubscriptionID)
	assert.Equal(t, "subscription_cycle", event.Invoice.BillingReason)
	assert.Equal(t, testUserID, event.Invoice.UserID)
	assert.Equal(t, int64(1900), event.Invoice.AmountPaid)
}

func TestTranslator_SubscriptionEvents(t *testing.T) {
	translator := NewTranslator(testSecret, zap.NewNop())

	subscription := map[string]interface{}{
		"id":       "sub_123",
		"object":   "subscription",
		"customer": "cus_123",
		"status":   "past_due",
		"items": map[string]interface{}{
			"object": "list",
			"data": []interface{}{
				map[string]interface{}{
					"id":     "si_1",
					"object": "subscription_item",
					"price":  map[string]interface{}{"id": "price_starter", "object": "price"},
				},
			},
		},
	}

	body, header := signedEvent(t, "evt_updated", "customer.subscription.updated", subscription)
	event, err := translator.Translate(body, header)
	require.NoError(t, err)
	assert.Equal(t, entity.EventKindSubscriptionUpdated, event.Kind)
	assert.Equal(t, "past_due", event.Subscription.ProviderStatus)
	assert.Equal(t, "price_starter", event.Subscription.PriceID)
	assert.Equal(t, "cus_123", event.Subscription.CustomerID)

	subscription["status"] = "canceled"
	body, header = signedEvent(t, "evt_deleted", "customer.subscription.deleted", subscription)
	event, err = translator.Translate(body, header)
	require.NoError(t, err)
	assert.Equal(t, entity.EventKindSubscriptionDeleted, event.Kind)
}

func TestTranslator_Rejects(t *testing.T) {
	translator := NewTranslator(testSecret, zap.NewNop())

	t.Run("bad signature", func(t *testing.T) {
		body, _ := signedEvent(t, "evt_1", "invoice.paid", map[string]interface{}{"id": "in_1"})
		_, err := translator.Translate(body, "t=1,v1=deadbeef")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("payload missing required fields", func(t *testing.T) {
		body, header := signedEvent(t, "evt_2", "customer.subscription.updated", map[string]interface{}{
			"id":     "sub_1",
			"object": "subscription",
			"status": "active",
		})
		_, err := translator.Translate(body, header)
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("unhandled type passes through", func(t *testing.T) {
		body, header := signedEvent(t, "evt_3", "charge.refunded", map[string]interface{}{"id": "ch_1", "object": "charge"})
		event, err := translator.Translate(body, header)
		require.NoError(t, err)
		assert.Equal(t, "evt_3", event.ID)
		assert.Equal(t, entity.EventKind("charge.refunded"), event.Kind)
		assert.False(t, event.Kind.Recognized())
	})
}
