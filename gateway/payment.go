package gateway

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/payhub/payhub/infra/config"
)

// Service is the single entry point consumers call. It resolves gateway
// names through the registry, dispatches lifecycle events around every
// operation and, unlike the gateway layer, surfaces failures as hard errors
// so callers cannot miss them while subscribers still get a record.
//
// Gateway selection is call-scoped: UseGateway returns a derived Service
// bound to the named gateway, so switching providers never interferes with
// concurrent requests sharing the base service.
type Service struct {
	registry *Registry
	conf     *config.GatewayConfig
	txLogger *TransactionLogger
	notifier *Notifier

	gatewayName string
	gw          Gateway
}

// NewService creates an orchestrator over the given registry and config.
// A nil registry falls back to the default registry, a nil notifier to a
// notifier without subscribers.
func NewService(conf *config.GatewayConfig, registry *Registry, txLogger *TransactionLogger, notifier *Notifier) *Service {
	if registry == nil {
		registry = DefaultRegistry
	}
	if notifier == nil {
		notifier = NewNotifier()
	}

	return &Service{
		registry: registry,
		conf:     conf,
		txLogger: txLogger,
		notifier: notifier,
	}
}

// Notifier exposes the event notifier for subscriber registration.
func (s *Service) Notifier() *Notifier {
	return s.notifier
}

// UseGateway returns a service bound to the named gateway. Unknown or
// disabled names are a configuration error; the operation never reaches any
// provider.
func (s *Service) UseGateway(name string) (*Service, error) {
	if !s.conf.Enabled(name) {
		return nil, fmt.Errorf("payment gateway '%s' is not configured", name)
	}

	factory, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}

	derived := *s
	derived.gatewayName = name
	derived.gw = factory(s.txLogger)

	return &derived, nil
}

// Default returns a service bound to the configured default gateway.
func (s *Service) Default() (*Service, error) {
	return s.UseGateway(s.conf.Default())
}

// Gateway returns the currently selected gateway.
func (s *Service) Gateway() Gateway {
	return s.gw
}

// AvailableGateways returns the configured gateway names that are both
// flagged enabled and registered, sorted for stable output.
func (s *Service) AvailableGateways() []string {
	available := make([]string, 0)
	for _, name := range s.conf.EnabledGateways() {
		if _, err := s.registry.Get(name); err == nil {
			available = append(available, name)
		}
	}
	sort.Strings(available)
	return available
}

// CreateOrder creates an order on the active gateway and emits a Created
// event on success or a Failed event plus a hard error on failure.
func (s *Service) CreateOrder(ctx context.Context, data map[string]any) (Envelope, error) {
	gw, err := s.active()
	if err != nil {
		return Envelope{}, err
	}

	env := gw.CreateOrder(ctx, data)
	return s.finish(env, EventCreated, "createOrder", data)
}

// Charge performs a charge on the active gateway and emits a Succeeded
// event on success.
func (s *Service) Charge(ctx context.Context, data map[string]any) (Envelope, error) {
	gw, err := s.active()
	if err != nil {
		return Envelope{}, err
	}

	env := gw.Charge(ctx, data)
	return s.finish(env, EventSucceeded, "charge", data)
}

// Refund refunds a transaction on the active gateway and emits a Refunded
// event on success.
func (s *Service) Refund(ctx context.Context, transactionID string, data map[string]any) (Envelope, error) {
	gw, err := s.active()
	if err != nil {
		return Envelope{}, err
	}

	env := gw.Refund(ctx, transactionID, data)
	return s.finish(env, EventRefunded, "refund", data)
}

// VerifyWebhook delegates to the active gateway. Verification itself is
// fail-closed inside the gateway; selection errors surface here.
func (s *Service) VerifyWebhook(req WebhookRequest) (bool, error) {
	gw, err := s.active()
	if err != nil {
		return false, err
	}

	return gw.VerifyWebhook(req), nil
}

// Reconcile dispatches a provider-specific reconciliation if the active
// gateway supports it. The capability is discovered with a type assertion;
// gateways without it report the operation as unsupported.
func (s *Service) Reconcile(ctx context.Context, data map[string]any) (Envelope, error) {
	gw, err := s.active()
	if err != nil {
		return Envelope{}, err
	}

	rec, ok := gw.(Reconciler)
	if !ok {
		return Envelope{}, fmt.Errorf("operation 'reconcile' is not supported by gateway '%s'", s.gatewayName)
	}

	return rec.Reconcile(ctx, data), nil
}

func (s *Service) active() (Gateway, error) {
	if s.gw == nil {
		return nil, errors.New("no payment gateway selected")
	}
	return s.gw, nil
}

// finish emits the lifecycle event for the envelope and converts a failed
// envelope into a hard error for the caller.
func (s *Service) finish(env Envelope, success EventType, operation string, input any) (Envelope, error) {
	if !env.Success {
		s.notifier.Emit(Event{
			Type:      EventFailed,
			Gateway:   env.Gateway,
			Error:     env.Error,
			Operation: operation,
			Input:     input,
		})
		return env, errors.New(env.Error)
	}

	s.notifier.Emit(Event{
		Type:     success,
		Gateway:  env.Gateway,
		Envelope: &env,
	})

	return env, nil
}
