package health

import (
	"context"
	"sync"
	"time"
)

// Result represents the outcome of a probe
type Result struct {
	Healthy   bool
	Message   string
	CheckedAt time.Time
	Duration  time.Duration
}

// Checker probes one external dependency
type Checker interface {
	// Check performs the probe and returns the result
	Check(ctx context.Context) Result

	// Name identifies the probed dependency, e.g. "telegram"
	Name() string
}

// Config controls probe scheduling
type Config struct {
	// Interval is the time between probes
	Interval time.Duration

	// Timeout bounds a single probe
	Timeout time.Duration

	// Retries is the number of consecutive failures before marking as unhealthy
	Retries int
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Interval: 60 * time.Second,
		Timeout:  10 * time.Second,
		Retries:  3,
	}
}

// Status tracks the health of one probed dependency
type Status struct {
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	LastCheck            time.Time
	LastResult           Result
	Healthy              bool
}

// NewStatus creates a Status that starts healthy
func NewStatus() *Status {
	return &Status{Healthy: true}
}

// Update folds a probe result into the status. A single success restores
// health; failures only count once Retries is reached.
func (s *Status) Update(result Result, config Config) {
	s.LastCheck = result.CheckedAt
	s.LastResult = result

	if result.Healthy {
		s.ConsecutiveSuccesses++
		s.ConsecutiveFailures = 0
		s.Healthy = true
		return
	}

	s.ConsecutiveFailures++
	s.ConsecutiveSuccesses = 0
	if s.ConsecutiveFailures >= config.Retries {
		s.Healthy = false
	}
}

// ReportFunc receives the status of a dependency after every probe
type ReportFunc func(name string, healthy bool, message string)

// Monitor runs a set of checkers on an interval
type Monitor struct {
	config   Config
	checkers []Checker
	report   ReportFunc

	mu       sync.RWMutex
	statuses map[string]*Status
}

// NewMonitor creates a monitor that passes every status change to report
func NewMonitor(config Config, report ReportFunc, checkers ...Checker) *Monitor {
	statuses := make(map[string]*Status, len(checkers))
	for _, c := range checkers {
		statuses[c.Name()] = NewStatus()
	}
	return &Monitor{
		config:   config,
		checkers: checkers,
		report:   report,
		statuses: statuses,
	}
}

// CheckAll probes every checker once
func (m *Monitor) CheckAll(ctx context.Context) {
	for _, c := range m.checkers {
		probeCtx, cancel := context.WithTimeout(ctx, m.config.Timeout)
		result := c.Check(probeCtx)
		cancel()

		m.mu.Lock()
		status := m.statuses[c.Name()]
		status.Update(result, m.config)
		healthy := status.Healthy
		m.mu.Unlock()

		if m.report != nil {
			m.report(c.Name(), healthy, result.Message)
		}
	}
}

// Run probes immediately and then on every interval until ctx is done
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	m.CheckAll(ctx)
	for {
		select {
		case <-ticker.C:
			m.CheckAll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Status returns a copy of the named dependency's status
func (m *Monitor) Status(name string) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.statuses[name]
	if !ok {
		return Status{}, false
	}
	return *s, true
}
