package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/payhub/payhub/gateway"
	"github.com/payhub/payhub/infra/config"
)

// fakeGateway is a canned-response gateway for handler tests.
type fakeGateway struct {
	name     string
	fail     bool
	verified bool
}

func (f *fakeGateway) Name() string { return f.name }

func (f *fakeGateway) envelope(op string) gateway.Envelope {
	if f.fail {
		return gateway.Fail(f.name, op, errors.New("provider down"))
	}
	return gateway.OK(f.name, gateway.Record{ID: "txn_1", Gateway: f.name, Status: gateway.StatusSuccess})
}

func (f *fakeGateway) CreateOrder(ctx context.Context, data map[string]any) gateway.Envelope {
	return f.envelope("createOrder")
}
func (f *fakeGateway) Charge(ctx context.Context, data map[string]any) gateway.Envelope {
	return f.envelope("charge")
}
func (f *fakeGateway) Refund(ctx context.Context, transactionID string, data map[string]any) gateway.Envelope {
	return f.envelope("refund")
}
func (f *fakeGateway) VerifyWebhook(req gateway.WebhookRequest) bool { return f.verified }
func (f *fakeGateway) GetOrders(ctx context.Context, filters map[string]string) gateway.Envelope {
	return f.envelope("getOrders")
}
func (f *fakeGateway) GetOrder(ctx context.Context, orderID string) gateway.Envelope {
	return f.envelope("getOrder")
}
func (f *fakeGateway) GetPayments(ctx context.Context, filters map[string]string) gateway.Envelope {
	return f.envelope("getPayments")
}
func (f *fakeGateway) GetPayment(ctx context.Context, paymentID string) gateway.Envelope {
	return f.envelope("getPayment")
}
func (f *fakeGateway) GetInvoices(ctx context.Context, filters map[string]string) gateway.Envelope {
	return f.envelope("getInvoices")
}
func (f *fakeGateway) GetInvoice(ctx context.Context, invoiceID string) gateway.Envelope {
	return f.envelope("getInvoice")
}
func (f *fakeGateway) GetSettlements(ctx context.Context, filters map[string]string) gateway.Envelope {
	return f.envelope("getSettlements")
}
func (f *fakeGateway) GetSettlement(ctx context.Context, settlementID string) gateway.Envelope {
	return f.envelope("getSettlement")
}

func newFakeService(t *testing.T, gw gateway.Gateway) *gateway.Service {
	t.Helper()

	conf := config.NewGatewayConfig()
	conf.Set(gw.Name(), map[string]string{"enabled": "true"})
	conf.SetDefault(gw.Name())

	registry := gateway.NewRegistry()
	registry.Register(gw.Name(), func(logger *gateway.TransactionLogger) gateway.Gateway { return gw })

	return gateway.NewService(conf, registry, nil, gateway.NewNotifier())
}
