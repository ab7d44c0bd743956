package notify

import (
	"context"
	"fmt"

	"github.com/cuemby/oretrace/pkg/events"
	"github.com/cuemby/oretrace/pkg/validate"
)

// EventNotifier republishes alerts on an event broker
type EventNotifier struct {
	broker *events.Broker
}

// NewEventNotifier creates a notifier publishing to broker
func NewEventNotifier(broker *events.Broker) *EventNotifier {
	return &EventNotifier{broker: broker}
}

func (n *EventNotifier) Name() string { return "events" }

// Send publishes a as an alert.<level> event. Data values are stringified
// into the event metadata next to the rule.
func (n *EventNotifier) Send(ctx context.Context, a validate.Alert) error {
	meta := make(map[string]string, len(a.Data)+1)
	for k, v := range a.Data {
		meta[k] = fmt.Sprint(v)
	}
	meta["rule"] = a.Rule

	return n.broker.Publish(ctx, &events.Event{
		Type:     events.AlertEventType(string(a.Level)),
		Message:  a.Message,
		Metadata: meta,
	})
}
