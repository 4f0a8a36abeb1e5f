package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/payhub/payhub/gateway"
	"github.com/payhub/payhub/infra/response"
)

// PaymentHandler exposes the orchestrator over HTTP. The gateway is picked
// per request from the "gateway" field or query parameter, falling back to
// the configured default.
type PaymentHandler struct {
	service  *gateway.Service
	validate *validator.Validate
}

// NewPaymentHandler creates a payment handler.
func NewPaymentHandler(service *gateway.Service, validate *validator.Validate) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		validate: validate,
	}
}

// CreateOrderRequest is the inbound order creation payload.
type CreateOrderRequest struct {
	Gateway  string         `json:"gateway"`
	Amount   float64        `json:"amount" validate:"required,gt=0"`
	Currency string         `json:"currency" validate:"omitempty,len=3"`
	Email    string         `json:"email" validate:"omitempty,email"`
	Metadata map[string]any `json:"metadata"`
	Extra    map[string]any `json:"extra"`
}

// CreateOrder handles POST /orders.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	svc, err := h.selectGateway(req.Gateway)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Gateway selection failed", err)
		return
	}

	data := map[string]any{
		"amount": req.Amount,
	}
	if req.Currency != "" {
		data["currency"] = req.Currency
	}
	if req.Email != "" {
		data["email"] = req.Email
	}
	if req.Metadata != nil {
		data["metadata"] = req.Metadata
	}
	for k, v := range req.Extra {
		data[k] = v
	}

	env, err := svc.CreateOrder(r.Context(), data)
	if err != nil {
		response.Error(w, http.StatusBadGateway, "Order creation failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Order created", env)
}

// Charge handles POST /charge. The request body is passed through to the
// gateway, which enforces its own required identifier.
func (h *PaymentHandler) Charge(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	svc, err := h.selectGateway(stringField(data, "gateway"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Gateway selection failed", err)
		return
	}
	delete(data, "gateway")

	env, err := svc.Charge(r.Context(), data)
	if err != nil {
		response.Error(w, http.StatusBadGateway, "Charge failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Charge completed", env)
}

// RefundRequest is the inbound refund payload.
type RefundRequest struct {
	Gateway string  `json:"gateway"`
	Amount  float64 `json:"amount" validate:"omitempty,gt=0"`
	Note    string  `json:"note"`
}

// Refund handles POST /refund/{transactionID}.
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")
	if transactionID == "" {
		response.Error(w, http.StatusBadRequest, "Transaction ID is required", nil)
		return
	}

	var req RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	svc, err := h.selectGateway(req.Gateway)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Gateway selection failed", err)
		return
	}

	data := map[string]any{}
	if req.Amount > 0 {
		data["amount"] = req.Amount
	}
	if req.Note != "" {
		data["note"] = req.Note
	}

	env, err := svc.Refund(r.Context(), transactionID, data)
	if err != nil {
		response.Error(w, http.StatusBadGateway, "Refund failed", err)
		return
	}

	response.Success(w, http.StatusOK, "Refund completed", env)
}

// ListOrders handles GET /orders.
func (h *PaymentHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	h.listOp(w, r, func(svc *gateway.Service, filters map[string]string) gateway.Envelope {
		return svc.Gateway().GetOrders(r.Context(), filters)
	})
}

// GetOrder handles GET /orders/{id}.
func (h *PaymentHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	h.getOp(w, r, func(svc *gateway.Service, id string) gateway.Envelope {
		return svc.Gateway().GetOrder(r.Context(), id)
	})
}

// ListPayments handles GET /payments.
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	h.listOp(w, r, func(svc *gateway.Service, filters map[string]string) gateway.Envelope {
		return svc.Gateway().GetPayments(r.Context(), filters)
	})
}

// GetPayment handles GET /payments/{id}.
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	h.getOp(w, r, func(svc *gateway.Service, id string) gateway.Envelope {
		return svc.Gateway().GetPayment(r.Context(), id)
	})
}

// ListSettlements handles GET /settlements.
func (h *PaymentHandler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	h.listOp(w, r, func(svc *gateway.Service, filters map[string]string) gateway.Envelope {
		return svc.Gateway().GetSettlements(r.Context(), filters)
	})
}

// ListInvoices handles GET /invoices.
func (h *PaymentHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	h.listOp(w, r, func(svc *gateway.Service, filters map[string]string) gateway.Envelope {
		return svc.Gateway().GetInvoices(r.Context(), filters)
	})
}

// Reconcile handles POST /reconcile for gateways that support the
// reconciliation extension.
func (h *PaymentHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	svc, err := h.selectGateway(stringField(data, "gateway"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Gateway selection failed", err)
		return
	}
	delete(data, "gateway")

	env, err := svc.Reconcile(r.Context(), data)
	if err != nil {
		response.Error(w, http.StatusNotImplemented, "Reconciliation not available", err)
		return
	}

	response.Success(w, http.StatusOK, "Reconciliation completed", env)
}

// ListGateways handles GET /gateways.
func (h *PaymentHandler) ListGateways(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Available gateways", h.service.AvailableGateways())
}

func (h *PaymentHandler) listOp(w http.ResponseWriter, r *http.Request, op func(*gateway.Service, map[string]string) gateway.Envelope) {
	svc, err := h.selectGateway(r.URL.Query().Get("gateway"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Gateway selection failed", err)
		return
	}

	filters := make(map[string]string)
	for key, values := range r.URL.Query() {
		if key == "gateway" || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}

	env := op(svc, filters)
	if !env.Success {
		response.Error(w, http.StatusBadGateway, "Provider request failed", errors.New(env.Error))
		return
	}

	response.Success(w, http.StatusOK, "OK", env)
}

func (h *PaymentHandler) getOp(w http.ResponseWriter, r *http.Request, op func(*gateway.Service, string) gateway.Envelope) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.Error(w, http.StatusBadRequest, "Resource ID is required", nil)
		return
	}

	svc, err := h.selectGateway(r.URL.Query().Get("gateway"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Gateway selection failed", err)
		return
	}

	env := op(svc, id)
	if !env.Success {
		response.Error(w, http.StatusBadGateway, "Provider request failed", errors.New(env.Error))
		return
	}

	response.Success(w, http.StatusOK, "OK", env)
}

func (h *PaymentHandler) selectGateway(name string) (*gateway.Service, error) {
	if name == "" {
		return h.service.Default()
	}
	return h.service.UseGateway(name)
}

func stringField(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}
	return ""
}
