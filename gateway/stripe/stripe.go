// Package stripe implements the payment gateway contract on top of the
// official Stripe SDK. Orders are modeled as PaymentIntents; webhook
// verification uses Stripe's signed-header scheme rather than a bare HMAC
// digest.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	stripesdk "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/payhub/payhub/gateway"
	"github.com/payhub/payhub/infra/config"
)

const gatewayName = "stripe"

var requiredFields = []gateway.ConfigField{
	{Key: "secret_key", Required: true, Description: "Stripe secret API key"},
}

// Gateway implements gateway.Gateway for Stripe.
type Gateway struct {
	txLogger *gateway.TransactionLogger
}

// New creates a Stripe gateway. Credentials are read lazily per call.
func New(txLogger *gateway.TransactionLogger) gateway.Gateway {
	return &Gateway{txLogger: txLogger}
}

// Name returns the provider key.
func (g *Gateway) Name() string {
	return gatewayName
}

type session struct {
	api           *client.API
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

	api := &client.API{}
	api.Init(conf["secret_key"], nil)

	return &session{
		api:           api,
		webhookSecret: conf["webhook_secret"],
	}, nil
}

// CreateOrder creates a PaymentIntent for the caller's amount. Stripe
// amounts are minor units on the wire; the caller supplies major units,
// consistent with the other gateways.
func (g *Gateway) CreateOrder(ctx context.Context, data map[string]any) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "createOrder", err)
	}

	params := &stripesdk.PaymentIntentParams{
		Amount:   stripesdk.Int64(int64(numberValue(data["amount"]) * 100)),
		Currency: stripesdk.String(stringOr(data["currency"], "inr")),
	}
	params.Context = ctx
	if email := stringOr(data["email"], ""); email != "" {
		params.ReceiptEmail = stripesdk.String(email)
	}
	if meta, ok := data["metadata"].(map[string]any); ok {
		for k, v := range meta {
			params.AddMetadata(k, fmt.Sprintf("%v", v))
		}
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return gateway.Fail(gatewayName, "createOrder", err)
	}

	rec := g.normalizeIntent(pi, gateway.TypeOrder)
	g.txLogger.Log(ctx, rec)

	return gateway.OK(gatewayName, rec)
}

// Charge looks up a PaymentIntent by id and normalizes its state.
func (g *Gateway) Charge(ctx context.Context, data map[string]any) gateway.Envelope {
	paymentID := stringOr(data["payment_id"], "")
	if paymentID == "" {
		return gateway.Fail(gatewayName, "charge", errors.New("payment_id required"))
	}

	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "charge", err)
	}

	params := &stripesdk.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(paymentID, params)
	if err != nil {
		return gateway.Fail(gatewayName, "charge", err)
	}

	rec := g.normalizeIntent(pi, gateway.TypePayment)
	g.txLogger.Log(ctx, rec)

	return gateway.OK(gatewayName, rec)
}

// Refund refunds a PaymentIntent, fully or partially.
func (g *Gateway) Refund(ctx context.Context, transactionID string, data map[string]any) gateway.Envelope {
	if transactionID == "" {
		return gateway.Fail(gatewayName, "refund", errors.New("transaction id required"))
	}

	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "refund", err)
	}

	params := &stripesdk.RefundParams{
		PaymentIntent: stripesdk.String(transactionID),
	}
	params.Context = ctx
	if amount := numberValue(data["amount"]); amount > 0 {
		params.Amount = stripesdk.Int64(int64(amount * 100))
	}

	ref, err := s.api.Refunds.New(params)
	if err != nil {
		return gateway.Fail(gatewayName, "refund", err)
	}

	raw := toMap(ref)
	rec := gateway.Normalize(raw, gateway.FieldMap{
		ID:       "id",
		Amount:   "amount",
		Currency: "currency",
		Type:     gateway.TypeRefund,
		Gateway:  gatewayName,
	})
	rec.Status = gateway.StatusRefunded
	rec.Metadata = map[string]any{"transaction_id": transactionID}
	g.txLogger.Log(ctx, rec)

	return gateway.OK(gatewayName, rec)
}

// VerifyWebhook validates the Stripe-Signature header using the SDK's
// signed-event construction. Fails closed on a missing header or secret.
func (g *Gateway) VerifyWebhook(req gateway.WebhookRequest) bool {
	s, err := g.load()
	if err != nil {
		return false
	}

	signature := req.Headers.Get("Stripe-Signature")
	if signature == "" || s.webhookSecret == "" {
		return false
	}

	_, err = webhook.ConstructEvent([]byte(req.Payload), signature, s.webhookSecret)
	return err == nil
}

// GetOrders lists PaymentIntents.
func (g *Gateway) GetOrders(ctx context.Context, filters map[string]string) gateway.Envelope {
	return g.listIntents(ctx, "getOrders", "orders", filters)
}

// GetOrder fetches one PaymentIntent as an order.
func (g *Gateway) GetOrder(ctx context.Context, orderID string) gateway.Envelope {
	return g.fetchIntent(ctx, "getOrder", orderID, gateway.TypeOrder)
}

// GetPayments lists PaymentIntents.
func (g *Gateway) GetPayments(ctx context.Context, filters map[string]string) gateway.Envelope {
	return g.listIntents(ctx, "getPayments", "payments", filters)
}

// GetPayment fetches one PaymentIntent as a payment.
func (g *Gateway) GetPayment(ctx context.Context, paymentID string) gateway.Envelope {
	return g.fetchIntent(ctx, "getPayment", paymentID, gateway.TypePayment)
}

// GetInvoices lists invoices.
func (g *Gateway) GetInvoices(ctx context.Context, filters map[string]string) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "getInvoices", err)
	}

	params := &stripesdk.InvoiceListParams{}
	params.Context = ctx
	applyFilters(&params.ListParams, filters)

	iter := s.api.Invoices.List(params)
	items := make([]any, 0)
	for iter.Next() {
		items = append(items, toMap(iter.Invoice()))
	}
	if err := iter.Err(); err != nil {
		return gateway.Fail(gatewayName, "getInvoices", err)
	}

	return gateway.OK(gatewayName, gateway.ListResult{
		Type:    "invoices",
		Count:   len(items),
		Items:   items,
		Gateway: gatewayName,
	})
}

// GetInvoice fetches one invoice; the provider body is returned untouched.
func (g *Gateway) GetInvoice(ctx context.Context, invoiceID string) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "getInvoice", err)
	}

	params := &stripesdk.InvoiceParams{}
	params.Context = ctx

	inv, err := s.api.Invoices.Get(invoiceID, params)
	if err != nil {
		return gateway.Fail(gatewayName, "getInvoice", err)
	}

	return gateway.OK(gatewayName, toMap(inv))
}

// GetSettlements lists payouts, Stripe's settlement equivalent.
func (g *Gateway) GetSettlements(ctx context.Context, filters map[string]string) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "getSettlements", err)
	}

	params := &stripesdk.PayoutListParams{}
	params.Context = ctx
	applyFilters(&params.ListParams, filters)

	iter := s.api.Payouts.List(params)
	items := make([]any, 0)
	for iter.Next() {
		items = append(items, toMap(iter.Payout()))
	}
	if err := iter.Err(); err != nil {
		return gateway.Fail(gatewayName, "getSettlements", err)
	}

	return gateway.OK(gatewayName, gateway.ListResult{
		Type:    "settlements",
		Count:   len(items),
		Items:   items,
		Gateway: gatewayName,
	})
}

// GetSettlement fetches one payout; the provider body is returned untouched.
func (g *Gateway) GetSettlement(ctx context.Context, settlementID string) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, "getSettlement", err)
	}

	params := &stripesdk.PayoutParams{}
	params.Context = ctx

	payout, err := s.api.Payouts.Get(settlementID, params)
	if err != nil {
		return gateway.Fail(gatewayName, "getSettlement", err)
	}

	return gateway.OK(gatewayName, toMap(payout))
}

func (g *Gateway) listIntents(ctx context.Context, operation, listType string, filters map[string]string) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, operation, err)
	}

	params := &stripesdk.PaymentIntentListParams{}
	params.Context = ctx
	applyFilters(&params.ListParams, filters)

	iter := s.api.PaymentIntents.List(params)
	items := make([]any, 0)
	for iter.Next() {
		items = append(items, toMap(iter.PaymentIntent()))
	}
	if err := iter.Err(); err != nil {
		return gateway.Fail(gatewayName, operation, err)
	}

	return gateway.OK(gatewayName, gateway.ListResult{
		Type:    listType,
		Count:   len(items),
		Items:   items,
		Gateway: gatewayName,
	})
}

func (g *Gateway) fetchIntent(ctx context.Context, operation, id string, recType gateway.RecordType) gateway.Envelope {
	s, err := g.load()
	if err != nil {
		return gateway.Fail(gatewayName, operation, err)
	}

	params := &stripesdk.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(id, params)
	if err != nil {
		return gateway.Fail(gatewayName, operation, err)
	}

	return gateway.OK(gatewayName, g.normalizeIntent(pi, recType))
}

func (g *Gateway) normalizeIntent(pi *stripesdk.PaymentIntent, recType gateway.RecordType) gateway.Record {
	raw := toMap(pi)
	return gateway.Normalize(raw, gateway.FieldMap{
		ID:       "id",
		Amount:   "amount",
		Currency: "currency",
		Status:   "status",
		Type:     recType,
		Gateway:  gatewayName,
		Custom:   []gateway.CustomField{gateway.Field("receipt_email")},
	})
}

func applyFilters(params *stripesdk.ListParams, filters map[string]string) {
	for k, v := range filters {
		params.Filters.AddFilter(k, "", v)
	}
}

// toMap renders an SDK struct as the generic raw map the normalizer works on.
func toMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}

	return out
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
