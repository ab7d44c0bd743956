package notify

import (
	"context"
	"testing"
	"time"

	"github.com/cuemby/oretrace/pkg/events"
	"github.com/cuemby/oretrace/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventNotifier_Send(t *testing.T) {
	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe(events.EventAlertCritical)
	n := NewEventNotifier(broker)

	err := n.Send(context.Background(), validate.Alert{
		Level: validate.LevelCritical, Rule: validate.RuleOreInputCritical, Message: "high grade",
		Data: map[string]interface{}{"au_ppm": 25.0, "sample_code": "A 1404 10 14 K1"},
	})
	require.NoError(t, err)

	select {
	case ev := <-sub:
		assert.Equal(t, events.EventAlertCritical, ev.Type)
		assert.Equal(t, "high grade", ev.Message)
		assert.Equal(t, validate.RuleOreInputCritical, ev.Metadata["rule"])
		assert.Equal(t, "25", ev.Metadata["au_ppm"])
		assert.Equal(t, "A 1404 10 14 K1", ev.Metadata["sample_code"])
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for alert event")
	}
}
