// Package cashfree implements the payment gateway contract for the
// Cashfree PG API. Unlike Razorpay, order amounts go over the wire in
// major units and the webhook signature digest is base64-encoded.
package cashfree

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/payhub/payhub/gateway"
	"github.com/payhub/payhub/infra/config"
)

const gatewayName = "cashfree"

const apiVersion = "2025-01-01"

const (
	endpointOrders      = "/orders"
	endpointPayments    = "/payments"
	endpointInvoices    = "/invoices"
	endpointSettlements = "/settlements"
	endpointRecon       = "/settlement/recon"
)

var requiredFields = []gateway.ConfigField{
	{Key: "app_id", Required: true, Description: "Cashfree client app id"},
	{Key: "secret", Required: true, Description: "Cashfree client secret"},
}

// Gateway implements gateway.Gateway for Cashfree. It also implements
// gateway.Reconciler for settlement reconciliation.
type Gateway struct {
	txLogger *gateway.TransactionLogger
}

// New creates a Cashfree gateway. Credentials are read lazily per call.
func New(txLogger *gateway.TransactionLogger) gateway.Gateway {
	return &Gateway{txLogger: txLogger}
}

// Name returns the provider key.
func (g *Gateway) Name() string {
	return gatewayName
}

type session struct {
	client        *gateway.HTTPClient
	webhookSecret string
}

func (g *Gateway) load() (*session, error) {
	conf, err := config.Gateways().Get(gatewayName)
	if err != nil {
		return nil, err
	}

	if err := gateway.ValidateConfigFields(gatewayName, conf, requiredFields); err != nil {
		return nil, err
	}

	baseURL := conf["base_url_sandbox"]
	if conf["mode"] == "production" {
		baseURL = conf["base_url_production"]
	}
	if baseURL == "" {
		baseURL = "https://sandbox.cashfree.com/pg"
	}

	clientConf := gateway.NewHTTPClientConfig(baseURL)
	clientConf.DefaultHeaders["x-client-id"] = conf["app_id"]
	clientConf.DefaultHeaders["x-client-secret"] = conf["secret"]
	clientConf.DefaultHeaders["x-api-version"] = apiVersion

	// Cashfree signs webhooks with the client secret unless a dedicated
	// webhook secret is configured.
	webhookSecret := conf["webhook_secret"]
	if webhookSecret == "" {
		webhookSecret = conf["secret"]
	}

	return &session{
		client:        gateway.NewHTTPClient(clientConf),
		webhookSecret: webhookSecret,
	}, nil
}

// CreateOrder creates a Cashfree order.
func (g *Gateway) CreateOrder(ctx context.Context, data map[string]any) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "createOrder", err)
	}

	payload := map[string]any{
		"order_amount":   int64(numberValue(data["amount"])),
		"order_currency": stringOr(data["currency"], "INR"),
		"customer_details": map[string]any{
			"customer_id":    stringOr(data["customer_id"], "cust_"+uuid.NewString()),
			"customer_email": data["email"],
			"customer_phone": data["phone"],
		},
	}
	if orderID := stringOr(data["order_id"], ""); orderID != "" {
		payload["order_id"] = orderID
	}
	if meta, ok := data["metadata"].(map[string]any); ok {
		payload["order_tags"] = meta
	}
	if note := stringOr(data["order_note"], ""); note != "" {
		payload["order_note"] = note
	}

	raw, err := g.postJSON(ctx, s, endpointOrders, payload)
	if err != nil {
		return gateway.Fail(gatewayName, "createOrder", err)
	}

	rec := gateway.Normalize(raw, gateway.FieldMap{
		ID:       "order_id",
		Amount:   "order_amount",
		Currency: "order_currency",
		Status:   "order_status",
		Type:     gateway.TypeOrder,
		Gateway:  gatewayName,
		Custom:   []gateway.CustomField{gateway.Field("payment_link")},
	})
	g.txLogger.Log(ctx, rec)

	return gateway.OK(gatewayName, rec)
}

// Charge confirms an order's payment state. Cashfree requires the order id.
func (g *Gateway) Charge(ctx context.Context, data map[string]any) gateway.Envelope {
	orderID := stringOr(data["order_id"], "")
	if orderID == "" {
		return gateway.Fail(gatewayName, "charge", errors.New("order_id required"))
	}

	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "charge", err)
	}

	raw, err := g.getJSON(ctx, s, endpointOrders+"/"+orderID, nil)
	if err != nil {
		return gateway.Fail(gatewayName, "charge", err)
	}

	rec := gateway.Normalize(raw, gateway.FieldMap{
		ID:       "order_id",
		Amount:   "order_amount",
		Currency: "order_currency",
		Status:   "order_status",
		Type:     gateway.TypePayment,
		Gateway:  gatewayName,
	})
	g.txLogger.Log(ctx, rec)

	return gateway.OK(gatewayName, rec)
}

// Refund requests a refund against an order.
func (g *Gateway) Refund(ctx context.Context, transactionID string, data map[string]any) gateway.Envelope {
	if transactionID == "" {
		return gateway.Fail(gatewayName, "refund", errors.New("transaction id required"))
	}

	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "refund", err)
	}

	payload := map[string]any{
		"refund_amount": numberValue(data["amount"]),
		"refund_note":   stringOr(data["note"], "Refund"),
	}

	raw, err := g.postJSON(ctx, s, endpointOrders+"/"+transactionID+"/refunds", payload)
	if err != nil {
		return gateway.Fail(gatewayName, "refund", err)
	}

	rec := gateway.Normalize(raw, gateway.FieldMap{
		ID:       "refund_id",
		Amount:   "refund_amount",
		Currency: "currency",
		Status:   "refund_status",
		Type:     gateway.TypeRefund,
		Gateway:  gatewayName,
	})
	// A refund that went through is refunded, whatever success word the
	// provider used for it.
	if rec.Status == gateway.StatusSuccess {
		rec.Status = gateway.StatusRefunded
	}
	rec.Metadata = map[string]any{"transaction_id": transactionID}
	g.txLogger.Log(ctx, rec)

	return gateway.OK(gatewayName, rec)
}

// VerifyWebhook validates the x-webhook-signature header: a base64-encoded
// HMAC-SHA256 digest of the raw body. Fails closed.
func (g *Gateway) VerifyWebhook(req gateway.WebhookRequest) bool {
	s, err := g.load()
	if err != nil {
		return false
	}

	signature := req.Headers.Get("x-webhook-signature")
	return gateway.VerifyBase64([]byte(req.Payload), signature, s.webhookSecret)
}

// Reconcile runs a settlement reconciliation, a Cashfree-specific extension
// operation discovered by the orchestrator via capability check.
func (g *Gateway) Reconcile(ctx context.Context, data map[string]any) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "reconcile", err)
	}

	raw, err := g.postJSON(ctx, s, endpointRecon, data)
	if err != nil {
		return gateway.Fail(gatewayName, "reconcile", err)
	}

	rec := gateway.Normalize(raw, gateway.FieldMap{
		Status:  "status",
		Type:    gateway.TypeReconciliation,
		Gateway: gatewayName,
	})
	g.txLogger.Log(ctx, rec)

	return gateway.OK(gatewayName, rec)
}

// GetOrders lists orders; Cashfree bodies are returned untouched.
func (g *Gateway) GetOrders(ctx context.Context, filters map[string]string) gateway.Envelope {
	return g.raw(ctx, "getOrders", endpointOrders, filters)
}

// GetOrder fetches one order.
func (g *Gateway) GetOrder(ctx context.Context, orderID string) gateway.Envelope {
	return g.raw(ctx, "getOrder", endpointOrders+"/"+orderID, nil)
}

// GetPayments lists payments.
func (g *Gateway) GetPayments(ctx context.Context, filters map[string]string) gateway.Envelope {
	return g.raw(ctx, "getPayments", endpointPayments, filters)
}

// GetPayment fetches one payment.
func (g *Gateway) GetPayment(ctx context.Context, paymentID string) gateway.Envelope {
	return g.raw(ctx, "getPayment", endpointPayments+"/"+paymentID, nil)
}

// GetInvoices lists invoices.
func (g *Gateway) GetInvoices(ctx context.Context, filters map[string]string) gateway.Envelope {
	return g.raw(ctx, "getInvoices", endpointInvoices, filters)
}

// GetInvoice fetches one invoice.
func (g *Gateway) GetInvoice(ctx context.Context, invoiceID string) gateway.Envelope {
	return g.raw(ctx, "getInvoice", endpointInvoices+"/"+invoiceID, nil)
}

// GetSettlements lists settlements.
func (g *Gateway) GetSettlements(ctx context.Context, filters map[string]string) gateway.Envelope {
	return g.raw(ctx, "getSettlements", endpointSettlements, filters)
}

// GetSettlement fetches one settlement.
func (g *Gateway) GetSettlement(ctx context.Context, settlementID string) gateway.Envelope {
	return g.raw(ctx, "getSettlement", endpointSettlements+"/"+settlementID, nil)
}

func (g *Gateway) raw(ctx context.Context, operation, endpoint string, query map[string]string) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, operation, err)
	}

	raw, err := g.getJSON(ctx, s, endpoint, query)
	if err != nil {
		return gateway.Fail(gatewayName, operation, err)
	}

	return gateway.OK(gatewayName, raw)
}

func (g *Gateway) postJSON(ctx context.Context, s *session, endpoint string, body any) (map[string]any, error) {
	resp, err := s.client.SendJSON(ctx, &gateway.HTTPRequest{
		Method:   "POST",
		Endpoint: endpoint,
		Body:     body,
	})
	if err != nil {
		return nil, err
	}
	return resp.JSONBody()
}

func (g *Gateway) getJSON(ctx context.Context, s *session, endpoint string, query map[string]string) (map[string]any, error) {
	resp, err := s.client.SendJSON(ctx, &gateway.HTTPRequest{
		Method:      "GET",
		Endpoint:    endpoint,
		QueryParams: query,
	})
	if err != nil {
		return nil, err
	}
	return resp.JSONBody()
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func numberValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
