package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_DeliversInSubscriptionOrder(t *testing.T) {
	n := NewNotifier()

	var order []string
	n.Subscribe(func(e Event) { order = append(order, "first") })
	n.Subscribe(func(e Event) { order = append(order, "second") })
	n.Subscribe(func(e Event) { order = append(order, "third") })

	n.Emit(Event{Type: EventCreated, Gateway: "testgw"})

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestNotifier_PanickingSubscriberIsIsolated(t *testing.T) {
	n := NewNotifier()

	var delivered []string
	n.Subscribe(func(e Event) { delivered = append(delivered, "before") })
	n.Subscribe(func(e Event) { panic("subscriber bug") })
	n.Subscribe(func(e Event) { delivered = append(delivered, "after") })

	assert.NotPanics(t, func() {
		n.Emit(Event{Type: EventFailed, Gateway: "testgw"})
	})

	// The panicking subscriber is skipped; the rest still run.
	assert.Equal(t, []string{"before", "after"}, delivered)
}

func TestNotifier_EmitStampsTime(t *testing.T) {
	n := NewNotifier()

	var got Event
	n.Subscribe(func(e Event) { got = e })

	n.Emit(Event{Type: EventSucceeded, Gateway: "testgw"})
	assert.False(t, got.At.IsZero())
}

func TestNotifier_NoSubscribers(t *testing.T) {
	n := NewNotifier()
	assert.NotPanics(t, func() {
		n.Emit(Event{Type: EventRefunded})
	})
}
