package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Store metrics
	LabSamplesStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oretrace_lab_samples_stored",
			Help: "Number of lab samples in the store",
		},
	)

	ShipmentsStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oretrace_shipments_stored",
			Help: "Number of truck shipments in the store",
		},
	)

	BunkerLoadsStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oretrace_bunker_loads_stored",
			Help: "Number of bunker loads in the store",
		},
	)

	AlertsStored = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oretrace_alerts_stored",
			Help: "Number of stored alerts by level",
		},
		[]string{"level"},
	)

	// Ingestion metrics
	SamplesIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oretrace_samples_ingested_total",
			Help: "Total number of new lab samples written",
		},
	)

	SamplesSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "oretrace_samples_skipped_total",
			Help: "Total number of lab samples skipped as already stored",
		},
	)

	RecordsConverted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oretrace_records_converted_total",
			Help: "Total number of raw records converted by source",
		},
		[]string{"source"},
	)

	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oretrace_pipeline_duration_seconds",
			Help:    "Time taken by one ingest pipeline run in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Alert metrics
	AlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oretrace_alerts_total",
			Help: "Total number of alerts raised by level and rule",
		},
		[]string{"level", "rule"},
	)

	NotifierFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oretrace_notifier_failures_total",
			Help: "Total number of failed notifier deliveries",
		},
		[]string{"notifier", "operation"},
	)

	NotifyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oretrace_notify_duration_seconds",
			Help:    "Notifier delivery duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"notifier"},
	)

	// Trace metrics
	TracesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oretrace_traces_total",
			Help: "Total number of sample traces built by outcome",
		},
		[]string{"outcome"},
	)

	LinkRate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "oretrace_link_rate",
			Help: "Fraction of samples linked to a bunker load in the last report",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(LabSamplesStored)
	prometheus.MustRegister(ShipmentsStored)
	prometheus.MustRegister(BunkerLoadsStored)
	prometheus.MustRegister(AlertsStored)
	prometheus.MustRegister(SamplesIngested)
	prometheus.MustRegister(SamplesSkipped)
	prometheus.MustRegister(RecordsConverted)
	prometheus.MustRegister(PipelineDuration)
	prometheus.MustRegister(AlertsTotal)
	prometheus.MustRegister(NotifierFailures)
	prometheus.MustRegister(NotifyDuration)
	prometheus.MustRegister(TracesTotal)
	prometheus.MustRegister(LinkRate)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
