package gateway

import (
	"context"
	"net/http"
)

// RecordType identifies the kind of operation a canonical record describes.
type RecordType string

const (
	TypeOrder          RecordType = "order"
	TypePayment        RecordType = "payment"
	TypeRefund         RecordType = "refund"
	TypeGeneric        RecordType = "generic"
	TypeReconciliation RecordType = "reconciliation"
)

// Record is the canonical, provider-agnostic transaction record. Every
// gateway operation that returns a single resource normalizes the provider
// response into this shape.
type Record struct {
	ID       string         `json:"id"`
	Type     RecordType     `json:"type"`
	Amount   int64          `json:"amount"` // minor currency units
	Currency string         `json:"currency"`
	Status   Status         `json:"status"`
	Gateway  string         `json:"gateway"`
	Raw      map[string]any `json:"raw"`
	Metadata map[string]any `json:"metadata"`
}

// ListResult is the shape returned by collection reads where the provider
// exposes an items/count pair.
type ListResult struct {
	Type    string `json:"type"`
	Count   int    `json:"count"`
	Items   []any  `json:"data"`
	Gateway string `json:"gateway"`
}

// Envelope is the uniform result wrapper for every gateway operation.
// Operations never return a Go error across the gateway boundary; failures
// are converted into an envelope with Success=false and Error set.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Gateway string `json:"gateway"`
}

// WebhookRequest carries an inbound webhook exactly as received: the raw
// request body and the full header set. Signature verification must run
// over the untouched payload bytes.
type WebhookRequest struct {
	Payload string
	Headers http.Header
}

// Gateway is the capability contract every payment provider implements.
type Gateway interface {
	// Name returns the provider key this gateway reports in every envelope.
	Name() string

	CreateOrder(ctx context.Context, data map[string]any) Envelope
	Charge(ctx context.Context, data map[string]any) Envelope
	Refund(ctx context.Context, transactionID string, data map[string]any) Envelope

	// VerifyWebhook validates inbound webhook authenticity. It fails closed:
	// missing signature, missing secret or any internal error yields false.
	VerifyWebhook(req WebhookRequest) bool

	GetOrders(ctx context.Context, filters map[string]string) Envelope
	GetOrder(ctx context.Context, orderID string) Envelope
	GetPayments(ctx context.Context, filters map[string]string) Envelope
	GetPayment(ctx context.Context, paymentID string) Envelope
	GetInvoices(ctx context.Context, filters map[string]string) Envelope
	GetInvoice(ctx context.Context, invoiceID string) Envelope
	GetSettlements(ctx context.Context, filters map[string]string) Envelope
	GetSettlement(ctx context.Context, settlementID string) Envelope
}

// Reconciler is an optional extension a gateway may implement for
// provider-specific settlement reconciliation. The orchestrator discovers it
// with a type assertion; gateways without it report the operation as
// unsupported.
type Reconciler interface {
	Reconcile(ctx context.Context, data map[string]any) Envelope
}

// Factory creates a new gateway instance bound to its transaction logger.
type Factory func(logger *TransactionLogger) Gateway

// OK wraps data in a success envelope for the named gateway.
func OK(gatewayName string, data any) Envelope {
	return Envelope{Success: true, Data: data, Gateway: gatewayName}
}

// Fail converts an operation failure into an error envelope. The message
// keeps provider and operation names for traceability.
func Fail(gatewayName, operation string, err error) Envelope {
	return Envelope{
		Success: false,
		Error:   gatewayName + ": " + operation + ": " + err.Error(),
		Gateway: gatewayName,
	}
}
