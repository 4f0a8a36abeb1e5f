package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/payhub/payhub/infra/config"
)

func paymentRouter(h *PaymentHandler) chi.Router {
	r := chi.NewRouter()
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders", h.ListOrders)
	r.Get("/orders/{id}", h.GetOrder)
	r.Post("/charge", h.Charge)
	r.Post("/refund/{transactionID}", h.Refund)
	r.Post("/reconcile", h.Reconcile)
	r.Get("/gateways", h.ListGateways)
	return r
}

func newPaymentHandler(t *testing.T, gw *fakeGateway) *PaymentHandler {
	t.Helper()
	return NewPaymentHandler(newFakeService(t, gw), config.App().Validator)
}

func TestCreateOrder_Success(t *testing.T) {
	h := newPaymentHandler(t, &fakeGateway{name: "fakepay"})

	body := `{"amount": 500, "currency": "INR", "email": "a@b.com"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
}

func TestCreateOrder_ValidationFailure(t *testing.T) {
	h := newPaymentHandler(t, &fakeGateway{name: "fakepay"})

	tests := []struct {
		name string
		body string
	}{
		{"missing amount", `{"currency": "INR"}`},
		{"negative amount", `{"amount": -5}`},
		{"bad currency", `{"amount": 100, "currency": "RUPEES"}`},
		{"bad email", `{"amount": 100, "email": "not-an-email"}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			paymentRouter(h).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateOrder_UnknownGateway(t *testing.T) {
	h := newPaymentHandler(t, &fakeGateway{name: "fakepay"})

	body := `{"amount": 500, "gateway": "nosuch"}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Gateway selection failed")
}

func TestCreateOrder_ProviderFailureIs502(t *testing.T) {
	h := newPaymentHandler(t, &fakeGateway{name: "fakepay", fail: true})

	body := `{"amount": 500}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCharge_Success(t *testing.T) {
	h := newPaymentHandler(t, &fakeGateway{name: "fakepay"})

	body := `{"payment_id": "pay_1", "gateway": "fakepay"}`
	req := httptest.NewRequest(http.MethodPost, "/charge", strings.NewReader(body))
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefund_Success(t *testing.T) {
	h := newPaymentHandler(t, &fakeGateway{name: "fakepay"})

	req := httptest.NewRequest(http.MethodPost, "/refund/txn_1", strings.NewReader(`{"amount": 100}`))
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReconcile_Unsupported501(t *testing.T) {
	h := newPaymentHandler(t, &fakeGateway{name: "fakepay"})

	req := httptest.NewRequest(http.MethodPost, "/reconcile", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestListOrders_Success(t *testing.T) {
	h := newPaymentHandler(t, &fakeGateway{name: "fakepay"})

	req := httptest.NewRequest(http.MethodGet, "/orders?count=5", nil)
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetOrder_Success(t *testing.T) {
	h := newPaymentHandler(t, &fakeGateway{name: "fakepay"})

	req := httptest.NewRequest(http.MethodGet, "/orders/ord_1", nil)
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListGateways(t *testing.T) {
	h := newPaymentHandler(t, &fakeGateway{name: "fakepay"})

	req := httptest.NewRequest(http.MethodGet, "/gateways", nil)
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fakepay")
}
