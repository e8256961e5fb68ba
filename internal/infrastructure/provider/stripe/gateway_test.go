package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/domain/catalog"
	"github.com/jake-hone07/Real-Estate-SaaS-sub000/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripeapi "github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
)

func testGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend := stripeapi.GetBackendWithConfig(stripeapi.APIBackend, &stripeapi.BackendConfig{
		URL:               stripeapi.String(server.URL),
		MaxNetworkRetries: stripeapi.Int64(0),
	})
	return NewGatewayWithBackends("sk_test_123", &stripeapi.Backends{API: backend, Connect: backend, Uploads: backend}, zap.NewNop())
}

func TestGateway_CreateCheckoutSession(t *testing.T) {
	userID := uuid.New()

	gateway := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "subscription", r.PostForm.Get("mode"))
		assert.Equal(t, "price_starter", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, "price_starter", r.PostForm.Get("metadata[price_id]"))
		assert.Equal(t, userID.String(), r.PostForm.Get("metadata[user_id]"))
		assert.Equal(t, userID.String(), r.PostForm.Get("subscription_data[metadata][user_id]"))
		assert.Equal(t, "cus_123", r.PostForm.Get("customer"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/cs_test_1"}`))
	})

	session, err := gateway.CreateCheckoutSession(context.Background(), usecase.CheckoutSessionRequest{
		UserID:     userID,
		CustomerID: "cus_123",
		Price:      catalog.Price{PriceID: "price_starter", Kind: catalog.PriceKindPlan},
		SuccessURL: "https://app.example.com/ok",
		CancelURL:  "https://app.example.com/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_test_1", session.URL)
}

func TestGateway_CreateCustomer(t *testing.T) {
	userID := uuid.New()

	gateway := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/customers", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "agent@example.com", r.PostForm.Get("email"))
		assert.Equal(t, userID.String(), r.PostForm.Get("metadata[user_id]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cus_new","object":"customer"}`))
	})

	id, err := gateway.CreateCustomer(context.Background(), userID, "agent@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cus_new", id)
}

func TestGateway_ProviderError(t *testing.T) {
	gateway := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such customer"}}`))
	})

	_, err := gateway.CreatePortalSession(context.Background(), "cus_missing", "https://app.example.com")
	assert.Error(t, err)
}

func TestGateway_CheckCatalog(t *testing.T) {
	cat, err := catalog.Parse([]byte(`
prices:
  - {price_id: price_credits_15, kind: credits, credits: 15, amount: "9.99", currency: usd}
  - {price_id: price_starter, kind: plan, tier: starter, amount: "19.00", currency: usd}
  - {price_id: price_gone, kind: credits, credits: 5, amount: "4.00", currency: usd}
`))
	require.NoError(t, err)

	gateway := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/prices/price_credits_15":
			_, _ = w.Write([]byte(`{"id":"price_credits_15","object":"price","active":true,"type":"one_time","currency":"usd","unit_amount":999}`))
		case "/v1/prices/price_starter":
			_, _ = w.Write([]byte(`{"id":"price_starter","object":"price","active":true,"type":"one_time","currency":"usd","unit_amount":2500}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such price"}}`))
		}
	})

	drifts, err := gateway.CheckCatalog(context.Background(), cat)
	require.NoError(t, err)

	problems := map[string][]string{}
	for _, d := range drifts {
		problems[d.PriceID] = append(problems[d.PriceID], d.Problem)
	}
	assert.NotContains(t, problems, "price_credits_15")
	assert.Len(t, problems["price_starter"], 2)
	assert.Equal(t, []string{"price does not exist"}, problems["price_gone"])
}
