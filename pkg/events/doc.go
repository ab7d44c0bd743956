/*
Package events provides an in-memory event broker for alert fan-out.

The broker decouples alert producers from consumers that want to react to
them without being a notification channel themselves, such as a live console
view or a test harness. Subscribers may ask for every event or only for
specific types.

# Architecture

	┌──────────────────── EVENT BROKER ────────────────────────┐
	│                                                            │
	│  Publisher → Event Channel (buffer: 100)                   │
	│       ↓                                                    │
	│  Broadcast Loop (one goroutine, started by Start)          │
	│       ↓                                                    │
	│  Subscriber Channels (buffer: 50 each, optional filter)    │
	│                                                            │
	│  Event Types:                                              │
	│    - alert.critical, alert.warning, alert.info             │
	│    - ingest.completed                                      │
	│    - trace.report                                          │
	└────────────────────────────────────────────────────────┘

# Delivery

Publish waits for space in the broker buffer, returning early when the
context is done or the broker has stopped. Broadcast never waits on a
subscriber: an event is dropped for any subscriber whose buffer is full.

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	critical := broker.Subscribe(events.EventAlertCritical)
	go func() {
		for ev := range critical {
			fmt.Println(ev.Message)
		}
	}()

	broker.Publish(ctx, &events.Event{
		Type:    events.EventAlertCritical,
		Message: "Tailings Au > 0.2 ppm: 0.31 ppm - gold loss too high",
	})
*/
package events
