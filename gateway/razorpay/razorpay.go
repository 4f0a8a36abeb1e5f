// Package razorpay implements the payment gateway contract for the
// Razorpay API. Amounts on the wire are paise; callers supply major units
// and order creation converts.
package razorpay

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/payhub/payhub/gateway"
	"github.com/payhub/payhub/infra/config"
)

const gatewayName = "razorpay"

const (
	endpointOrders      = "/orders"
	endpointPayments    = "/payments"
	endpointInvoices    = "/invoices"
	endpointSettlements = "/settlements"
)

var requiredFields = []gateway.ConfigField{
	{Key: "key", Required: true, Description: "Razorpay API key id"},
	{Key: "secret", Required: true, Description: "Razorpay API key secret"},
	{Key: "base_url", Required: true, Description: "Razorpay API base URL"},
}

// Gateway implements gateway.Gateway for Razorpay.
type Gateway struct {
	txLogger *gateway.TransactionLogger
}

// New creates a Razorpay gateway. Credentials are read lazily; a gateway
// with missing credentials constructs fine and errors on first use.
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

// load reads credentials from configuration per call, per the lazy config
// contract, and builds an authenticated HTTP client.
func (g *Gateway) load() (*session, error) {
	conf, err := config.Gateways().Get(gatewayName)
	if err != nil {
		return nil, err
	}

	if err := gateway.ValidateConfigFields(gatewayName, conf, requiredFields); err != nil {
		return nil, err
	}

	clientConf := gateway.NewHTTPClientConfig(conf["base_url"])
	auth := base64.StdEncoding.EncodeToString([]byte(conf["key"] + ":" + conf["secret"]))
	clientConf.DefaultHeaders["Authorization"] = "Basic " + auth

	return &session{
		client:        gateway.NewHTTPClient(clientConf),
		webhookSecret: conf["webhook_secret"],
	}, nil
}

// CreateOrder creates a Razorpay order. The caller's amount is in major
// units and is converted to paise on the wire.
func (g *Gateway) CreateOrder(ctx context.Context, data map[string]any) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "createOrder", err)
	}

	payload := map[string]any{
		"amount":   int64(numberValue(data["amount"]) * 100),
		"currency": stringOr(data["currency"], "INR"),
		"receipt":  receiptFrom(data),
	}
	if meta, ok := data["metadata"].(map[string]any); ok {
		payload["notes"] = meta
	}

	raw, err := g.postJSON(ctx, s, endpointOrders, payload)
	if err != nil {
		return gateway.Fail(gatewayName, "createOrder", err)
	}

	rec := gateway.Normalize(raw, gateway.FieldMap{
		ID:       "id",
		Amount:   "amount",
		Currency: "currency",
		Status:   "status",
		Type:     gateway.TypeOrder,
		Gateway:  gatewayName,
		Custom:   []gateway.CustomField{gateway.Field("notes"), gateway.Field("receipt")},
	})
	g.txLogger.Log(ctx, rec)

	return gateway.OK(gatewayName, rec)
}

// Charge looks up a captured payment. Razorpay charges happen on its
// checkout; this confirms and normalizes the resulting payment.
func (g *Gateway) Charge(ctx context.Context, data map[string]any) gateway.Envelope {
	paymentID := stringOr(data["payment_id"], "")
	if paymentID == "" {
		return gateway.Fail(gatewayName, "charge", errors.New("payment_id required"))
	}

	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "charge", err)
	}

	raw, err := g.getJSON(ctx, s, endpointPayments+"/"+paymentID, nil)
	if err != nil {
		return gateway.Fail(gatewayName, "charge", err)
	}

	rec := gateway.Normalize(raw, gateway.FieldMap{
		ID:       "id",
		Amount:   "amount",
		Currency: "currency",
		Status:   "status",
		Type:     gateway.TypePayment,
		Gateway:  gatewayName,
	})
	g.txLogger.Log(ctx, rec)

	return gateway.OK(gatewayName, rec)
}

// Refund refunds a payment, fully or partially.
func (g *Gateway) Refund(ctx context.Context, transactionID string, data map[string]any) gateway.Envelope {
	if transactionID == "" {
		return gateway.Fail(gatewayName, "refund", errors.New("transaction id required"))
	}

	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "refund", err)
	}

	payload := map[string]any{}
	if amount := numberValue(data["amount"]); amount > 0 {
		payload["amount"] = int64(amount * 100)
	}

	raw, err := g.postJSON(ctx, s, fmt.Sprintf("%s/%s/refund", endpointPayments, transactionID), payload)
	if err != nil {
		return gateway.Fail(gatewayName, "refund", err)
	}

	rec := gateway.Normalize(raw, gateway.FieldMap{
		ID:       "id",
		Amount:   "amount",
		Currency: "currency",
		Type:     gateway.TypeRefund,
		Gateway:  gatewayName,
	})
	// A completed Razorpay refund is refunded regardless of the raw status
	// vocabulary on the refund entity.
	rec.Status = gateway.StatusRefunded
	rec.Metadata = map[string]any{"transaction_id": transactionID}
	g.txLogger.Log(ctx, rec)

	return gateway.OK(gatewayName, rec)
}

// VerifyWebhook validates the X-Razorpay-Signature header: a hex HMAC-SHA256
// digest of the raw body under the webhook secret. Fails closed.
func (g *Gateway) VerifyWebhook(req gateway.WebhookRequest) bool {
	s, err := g.load()
	if err != nil {
		return false
	}

	signature := req.Headers.Get("X-Razorpay-Signature")
	return gateway.VerifyHex([]byte(req.Payload), signature, s.webhookSecret)
}

// GetOrders lists orders.
func (g *Gateway) GetOrders(ctx context.Context, filters map[string]string) gateway.Envelope {
	return g.list(ctx, "getOrders", endpointOrders, "orders", filters)
}

// GetOrder fetches and normalizes one order.
func (g *Gateway) GetOrder(ctx context.Context, orderID string) gateway.Envelope {
	return g.fetch(ctx, "getOrder", endpointOrders+"/"+orderID, gateway.TypeOrder)
}

// GetPayments lists payments.
func (g *Gateway) GetPayments(ctx context.Context, filters map[string]string) gateway.Envelope {
	return g.list(ctx, "getPayments", endpointPayments, "payments", filters)
}

// GetPayment fetches and normalizes one payment.
func (g *Gateway) GetPayment(ctx context.Context, paymentID string) gateway.Envelope {
	return g.fetch(ctx, "getPayment", endpointPayments+"/"+paymentID, gateway.TypePayment)
}

// GetInvoices lists invoices.
func (g *Gateway) GetInvoices(ctx context.Context, filters map[string]string) gateway.Envelope {
	return g.list(ctx, "getInvoices", endpointInvoices, "invoices", filters)
}

// GetInvoice fetches one invoice; the provider body is returned untouched.
func (g *Gateway) GetInvoice(ctx context.Context, invoiceID string) gateway.Envelope {
	return g.raw(ctx, "getInvoice", endpointInvoices+"/"+invoiceID)
}

// GetSettlements lists settlements.
func (g *Gateway) GetSettlements(ctx context.Context, filters map[string]string) gateway.Envelope {
	return g.list(ctx, "getSettlements", endpointSettlements, "settlements", filters)
}

// GetSettlement fetches one settlement; the provider body is returned untouched.
func (g *Gateway) GetSettlement(ctx context.Context, settlementID string) gateway.Envelope {
	return g.raw(ctx, "getSettlement", endpointSettlements+"/"+settlementID)
}

func (g *Gateway) list(ctx context.Context, operation, endpoint, listType string, filters map[string]string) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, operation, err)
	}

	raw, err := g.getJSON(ctx, s, endpoint, filters)
	if err != nil {
		return gateway.Fail(gatewayName, operation, err)
	}

	result := gateway.ListResult{
		Type:    listType,
		Gateway: gatewayName,
	}
	if items, ok := raw["items"].([]any); ok {
		result.Items = items
	}
	if count, ok := raw["count"].(float64); ok {
		result.Count = int(count)
	}

	return gateway.OK(gatewayName, result)
}

func (g *Gateway) fetch(ctx context.Context, operation, endpoint string, recType gateway.RecordType) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, operation, err)
	}

	raw, err := g.getJSON(ctx, s, endpoint, nil)
	if err != nil {
		return gateway.Fail(gatewayName, operation, err)
	}

	rec := gateway.Normalize(raw, gateway.FieldMap{
		ID:       "id",
		Amount:   "amount",
		Currency: "currency",
		Status:   "status",
		Type:     recType,
		Gateway:  gatewayName,
	})

	return gateway.OK(gatewayName, rec)
}

func (g *Gateway) raw(ctx context.Context, operation, endpoint string) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, operation, err)
	}

	raw, err := g.getJSON(ctx, s, endpoint, nil)
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

func receiptFrom(data map[string]any) string {
	if meta, ok := data["metadata"].(map[string]any); ok {
		if r := stringOr(meta["receipt"], ""); r != "" {
			return r
		}
	}
	if r := stringOr(data["receipt"], ""); r != "" {
		return r
	}
	return "rcpt_" + uuid.NewString()
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
