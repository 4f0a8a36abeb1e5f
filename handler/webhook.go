package handler

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/payhub/payhub/gateway"
	"github.com/payhub/payhub/infra/logger"
	"github.com/payhub/payhub/infra/response"
)

// WebhookHandler receives provider webhook notifications. It only forwards
// the raw body and headers into the core and maps the boolean verification
// result to an HTTP status: verified 200, rejected 400, internal error 500.
type WebhookHandler struct {
	service *gateway.Service
}

// NewWebhookHandler creates a webhook handler.
func NewWebhookHandler(service *gateway.Service) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// Handle handles POST /webhooks/{gateway}.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	gatewayName := chi.URLParam(r, "gateway")
	if gatewayName == "" {
		response.Error(w, http.StatusBadRequest, "Gateway parameter is required", nil)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	svc, err := h.service.UseGateway(gatewayName)
	if err != nil {
		h.emitFailure(gatewayName, err)
		response.Error(w, http.StatusInternalServerError, "Webhook handling failed", err)
		return
	}

	verified, err := svc.VerifyWebhook(gateway.WebhookRequest{
		Payload: string(body),
		Headers: r.Header,
	})
	if err != nil {
		h.emitFailure(gatewayName, err)
		response.Error(w, http.StatusInternalServerError, "Webhook handling failed", err)
		return
	}

	if !verified {
		logger.Warn("Webhook signature rejected", logger.LogContext{Gateway: gatewayName})
		response.Error(w, http.StatusBadRequest, "Invalid webhook signature", nil)
		return
	}

	h.service.Notifier().Emit(gateway.Event{
		Type:    gateway.EventSucceeded,
		Gateway: gatewayName,
		Input:   string(body),
	})

	response.Success(w, http.StatusOK, "Webhook verified", nil)
}

func (h *WebhookHandler) emitFailure(gatewayName string, err error) {
	h.service.Notifier().Emit(gateway.Event{
		Type:      gateway.EventFailed,
		Gateway:   gatewayName,
		Error:     err.Error(),
		Operation: "verifyWebhook",
	})
}
