package metrics

import (
	"time"

	"github.com/cuemby/oretrace/pkg/storage"
	"github.com/cuemby/oretrace/pkg/validate"
)

// StatsSource reports record counts, typically a storage.Store
type StatsSource interface {
	Stats() (storage.Stats, error)
}

// Collector periodically copies store counts into gauges and keeps the
// "store" health component current
type Collector struct {
	source   StatsSource
	interval time.Duration
	stopCh   chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(source StatsSource, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Collector{
		source:   source,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *Collector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		// Collect immediately on start
		c.Collect()

		for {
			select {
			case <-ticker.C:
				c.Collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *Collector) Stop() {
	close(c.stopCh)
}

// Collect reads the store once
func (c *Collector) Collect() {
	stats, err := c.source.Stats()
	if err != nil {
		UpdateComponent(ComponentStore, false, err.Error())
		return
	}
	UpdateComponent(ComponentStore, true, "")

	LabSamplesStored.Set(float64(stats.LabSamples))
	ShipmentsStored.Set(float64(stats.Shipments))
	BunkerLoadsStored.Set(float64(stats.BunkerLoads))
	for _, level := range validate.Levels() {
		AlertsStored.WithLabelValues(string(level)).Set(float64(stats.AlertsByLevel[level]))
	}
}
