package alert

import (
	"context"
	"sync"

	"github.com/cuemby/oretrace/pkg/log"
	"github.com/cuemby/oretrace/pkg/metrics"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/cuemby/oretrace/pkg/validate"
)

// Notifier delivers single alerts to one channel
type Notifier interface {
	Name() string
	Send(ctx context.Context, a validate.Alert) error
}

// Summarizer is implemented by notifiers that buffer alerts and flush a
// digest at the end of a batch
type Summarizer interface {
	SendSummary(ctx context.Context) error
}

// Summary counts the alerts raised by one ProcessAndSend call
type Summary struct {
	TotalAlerts int                    `json:"total_alerts"`
	ByLevel     map[validate.Level]int `json:"by_level"`
	ByRule      map[string]int         `json:"by_rule"`
	Alerts      []validate.Alert       `json:"alerts"`
}

func newSummary(alerts []validate.Alert) Summary {
	s := Summary{
		TotalAlerts: len(alerts),
		ByLevel:     map[validate.Level]int{},
		ByRule:      map[string]int{},
		Alerts:      alerts,
	}
	for _, a := range alerts {
		s.ByLevel[a.Level]++
		s.ByRule[a.Rule]++
	}
	return s
}

// Router runs validation over a batch and fans the resulting alerts out to
// every registered notifier
type Router struct {
	mu        sync.Mutex
	engine    *validate.Engine
	notifiers []Notifier
}

// NewRouter creates a router around engine
func NewRouter(engine *validate.Engine) *Router {
	return &Router{engine: engine}
}

// AddNotifier registers n. Notifiers receive alerts in registration order.
func (r *Router) AddNotifier(n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifiers = append(r.notifiers, n)
}

// Notifiers returns the registered notifier names
func (r *Router) Notifiers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.notifiers))
	for _, n := range r.notifiers {
		names = append(names, n.Name())
	}
	return names
}

// Collect validates shipments then samples, in input order, without sending
func (r *Router) Collect(shipments []types.Shipment, samples []types.LabSample) []validate.Alert {
	alerts := []validate.Alert{}
	for _, s := range shipments {
		alerts = append(alerts, r.engine.ValidateShipment(s)...)
	}
	for _, s := range samples {
		alerts = append(alerts, r.engine.ValidateLabSample(s)...)
	}
	return alerts
}

// ProcessAndSend validates the batch, delivers every alert to every notifier
// and then asks summarizing notifiers to flush. Delivery failures are logged
// and counted but never returned; one failing channel does not stop the others.
func (r *Router) ProcessAndSend(ctx context.Context, shipments []types.Shipment, samples []types.LabSample) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	alerts := r.Collect(shipments, samples)
	for _, a := range alerts {
		metrics.AlertsTotal.WithLabelValues(string(a.Level), a.Rule).Inc()
		for _, n := range r.notifiers {
			r.send(ctx, n, a)
		}
	}

	for _, n := range r.notifiers {
		if s, ok := n.(Summarizer); ok {
			if err := s.SendSummary(ctx); err != nil {
				metrics.NotifierFailures.WithLabelValues(n.Name(), "summary").Inc()
				logger := log.WithNotifier(n.Name())
				logger.Error().Err(err).Msg("Failed to send alert summary")
			}
		}
	}

	summary := newSummary(alerts)
	logger := log.WithComponent("alert")
	logger.Info().
		Int("total", summary.TotalAlerts).
		Int("critical", summary.ByLevel[validate.LevelCritical]).
		Int("warning", summary.ByLevel[validate.LevelWarning]).
		Msg("Alerts processed")
	return summary
}

func (r *Router) send(ctx context.Context, n Notifier, a validate.Alert) {
	timer := metrics.NewTimer()
	err := n.Send(ctx, a)
	timer.ObserveDurationVec(metrics.NotifyDuration, n.Name())
	if err != nil {
		metrics.NotifierFailures.WithLabelValues(n.Name(), "send").Inc()
		logger := log.WithNotifier(n.Name())
		logger.Error().Err(err).Str("rule", a.Rule).Msg("Failed to send alert")
	}
}
