package cashfree

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/payhub/payhub/gateway"
	"github.com/payhub/payhub/infra/config"
)

func configure(t *testing.T, baseURL string) {
	t.Helper()
	config.Gateways().Set(gatewayName, map[string]string{
		"enabled":          "true",
		"app_id":           "cf_test_app",
		"secret":           "cf_test_secret",
		"webhook_secret":   "cf_whsec",
		"mode":             "sandbox",
		"base_url_sandbox": baseURL,
	})
}

func TestCreateOrder_SendsMajorUnitsAndHeaders(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "cf_test_app", r.Header.Get("x-client-id"))
		assert.Equal(t, "cf_test_secret", r.Header.Get("x-client-secret"))
		assert.Equal(t, apiVersion, r.Header.Get("x-api-version"))
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{
			"order_id": "order_cf_1",
			"order_amount": 500,
			"order_currency": "INR",
			"order_status": "ACTIVE",
			"payment_link": "https://payments.cashfree.com/order/xyz"
		}`))
	}))
	defer server.Close()
	configure(t, server.URL)

	g := New(nil)
	env := g.CreateOrder(context.Background(), map[string]any{
		"amount": float64(500),
		"email":  "buyer@example.com",
	})

	assert.True(t, env.Success)

	// Cashfree takes major units, no paise conversion.
	assert.Equal(t, float64(500), gotBody["order_amount"])
	assert.Equal(t, "INR", gotBody["order_currency"])
	customer := gotBody["customer_details"].(map[string]any)
	assert.NotEmpty(t, customer["customer_id"])
	assert.Equal(t, "buyer@example.com", customer["customer_email"])

	rec := env.Data.(gateway.Record)
	assert.Equal(t, "order_cf_1", rec.ID)
	assert.Equal(t, int64(500), rec.Amount)
	assert.Equal(t, gateway.TypeOrder, rec.Type)
	// ACTIVE is outside the status vocabulary, so it classifies as pending.
	assert.Equal(t, gateway.StatusPending, rec.Status)
	assert.Equal(t, "https://payments.cashfree.com/order/xyz", rec.Metadata["payment_link"])
}

func TestCreateOrder_MissingCredentials(t *testing.T) {
	config.Gateways().Set(gatewayName, map[string]string{
		"enabled": "true",
		"app_id":  "cf_test_app",
	})

	g := New(nil)
	env := g.CreateOrder(context.Background(), map[string]any{"amount": float64(100)})

	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "required field 'secret'")
}

func TestCharge_RequiresOrderID(t *testing.T) {
	configure(t, "https://sandbox.cashfree.com/pg")

	g := New(nil)
	env := g.Charge(context.Background(), map[string]any{})

	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "order_id required")
}

func TestCharge_NormalizesPaidOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/order_cf_1", r.URL.Path)
		w.Write([]byte(`{"order_id":"order_cf_1","order_amount":500,"order_currency":"INR","order_status":"PAID"}`))
	}))
	defer server.Close()
	configure(t, server.URL)

	g := New(nil)
	env := g.Charge(context.Background(), map[string]any{"order_id": "order_cf_1"})

	assert.True(t, env.Success)
	rec := env.Data.(gateway.Record)
	assert.Equal(t, gateway.StatusSuccess, rec.Status)
	assert.Equal(t, gateway.TypePayment, rec.Type)
}

func TestRefund_SuccessBecomesRefunded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/order_cf_1/refunds", r.URL.Path)
		w.Write([]byte(`{"refund_id":"rf_1","refund_amount":500,"currency":"INR","refund_status":"SUCCESS"}`))
	}))
	defer server.Close()
	configure(t, server.URL)

	g := New(nil)
	env := g.Refund(context.Background(), "order_cf_1", map[string]any{"amount": float64(500)})

	assert.True(t, env.Success)
	rec := env.Data.(gateway.Record)
	assert.Equal(t, "rf_1", rec.ID)
	// A successful refund reads as refunded, not success.
	assert.Equal(t, gateway.StatusRefunded, rec.Status)
	assert.Equal(t, "order_cf_1", rec.Metadata["transaction_id"])
}

func TestReconcile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/settlement/recon", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"status":"processed","data":[]}`))
	}))
	defer server.Close()
	configure(t, server.URL)

	g := New(nil).(*Gateway)
	env := g.Reconcile(context.Background(), map[string]any{"pagination": map[string]any{"limit": 10}})

	assert.True(t, env.Success)
	rec := env.Data.(gateway.Record)
	assert.Equal(t, gateway.TypeReconciliation, rec.Type)
	assert.Equal(t, gateway.StatusSuccess, rec.Status)
}

func TestVerifyWebhook_Base64Signature(t *testing.T) {
	configure(t, "https://sandbox.cashfree.com/pg")
	g := New(nil)

	payload := `{"type":"PAYMENT_SUCCESS_WEBHOOK"}`
	sig := gateway.SignBase64([]byte(payload), "cf_whsec")

	headers := http.Header{}
	headers.Set("x-webhook-signature", sig)
	assert.True(t, g.VerifyWebhook(gateway.WebhookRequest{Payload: payload, Headers: headers}))

	assert.False(t, g.VerifyWebhook(gateway.WebhookRequest{Payload: payload + "x", Headers: headers}))
	assert.False(t, g.VerifyWebhook(gateway.WebhookRequest{Payload: payload, Headers: http.Header{}}))
}

func TestVerifyWebhook_FallsBackToClientSecret(t *testing.T) {
	config.Gateways().Set(gatewayName, map[string]string{
		"enabled": "true",
		"app_id":  "cf_test_app",
		"secret":  "cf_test_secret",
	})
	g := New(nil)

	payload := `{"type":"PAYMENT_SUCCESS_WEBHOOK"}`
	headers := http.Header{}
	headers.Set("x-webhook-signature", gateway.SignBase64([]byte(payload), "cf_test_secret"))
	assert.True(t, g.VerifyWebhook(gateway.WebhookRequest{Payload: payload, Headers: headers}))
}

func TestGetOrder_ReturnsRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id":"order_cf_1","order_status":"PAID"}`))
	}))
	defer server.Close()
	configure(t, server.URL)

	g := New(nil)
	env := g.GetOrder(context.Background(), "order_cf_1")

	assert.True(t, env.Success)
	raw := env.Data.(map[string]any)
	assert.Equal(t, "order_cf_1", raw["order_id"])
}

func TestGatewayIsRegistered(t *testing.T) {
	factory, err := gateway.DefaultRegistry.Get(gatewayName)
	assert.NoError(t, err)
	assert.Equal(t, gatewayName, factory(nil).Name())
}
