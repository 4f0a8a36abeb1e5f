package gateway

import (
	"time"

	"github.com/payhub/payhub/infra/logger"
)

// EventType identifies a payment lifecycle event.
type EventType string

const (
	EventCreated   EventType = "payment.created"
	EventSucceeded EventType = "payment.succeeded"
	EventRefunded  EventType = "payment.refunded"
	EventFailed    EventType = "payment.failed"
)

// Event is dispatched after every orchestrated operation. Success events
// carry the result envelope; failure events carry the error message plus the
// operation name and original input.
type Event struct {
	Type      EventType `json:"type"`
	Gateway   string    `json:"gateway"`
	Envelope  *Envelope `json:"envelope,omitempty"`
	Error     string    `json:"error,omitempty"`
	Operation string    `json:"operation,omitempty"`
	Input     any       `json:"input,omitempty"`
	At        time.Time `json:"at"`
}

// Subscriber receives lifecycle events.
type Subscriber func(Event)

// Notifier dispatches events to subscribers synchronously, in subscription
// order. A panicking subscriber is recovered and skipped so observers can
// never fail a payment operation.
type Notifier struct {
	subscribers []Subscriber
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe appends a subscriber. Subscribers are expected to be registered
// at startup; Subscribe is not safe for concurrent use with Emit.
func (n *Notifier) Subscribe(s Subscriber) {
	n.subscribers = append(n.subscribers, s)
}

// Emit delivers the event to every subscriber in order.
func (n *Notifier) Emit(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	for _, s := range n.subscribers {
		n.deliver(s, e)
	}
}

func (n *Notifier) deliver(s Subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Event subscriber panicked", logger.LogContext{
				Gateway: e.Gateway,
				Fields: map[string]any{
					"event": string(e.Type),
					"panic": r,
				},
			})
		}
	}()

	s(e)
}
