/*
Package metrics provides Prometheus metrics and health endpoints for oretrace.

All metrics are registered with the Prometheus default registry at package
init and exposed through Handler for scraping. The package also keeps a small
in-process health registry used by the /health and /ready endpoints of the
serve command.

# Architecture

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│                                                            │
	│  ingest.Pipeline ──► SamplesIngested, RecordsConverted     │
	│                      PipelineDuration                      │
	│                                                            │
	│  alert.Router ─────► AlertsTotal, NotifyDuration           │
	│                      NotifierFailures                      │
	│                                                            │
	│  linker report ────► TracesTotal, LinkRate                 │
	│                                                            │
	│  Collector ────────► *Stored gauges (from store.Stats)     │
	│       │                                                    │
	│       └──────────► health component "store"               │
	│                                                            │
	│  Handler()  HealthHandler()  ReadyHandler()                │
	└────────────────────────────────────────────────────────────┘

# Metrics

Store contents (gauges, refreshed by Collector):

	oretrace_lab_samples_stored
	oretrace_shipments_stored
	oretrace_bunker_loads_stored
	oretrace_alerts_stored{level}

Ingest (counters and histogram):

	oretrace_samples_ingested_total
	oretrace_samples_skipped_total
	oretrace_records_converted_total{source}
	oretrace_pipeline_duration_seconds

Alerting:

	oretrace_alerts_total{level,rule}
	oretrace_notifier_failures_total{notifier,operation}
	oretrace_notify_duration_seconds{notifier}

Traceability:

	oretrace_traces_total{outcome}
	oretrace_link_rate

# Usage

Timing an operation:

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.PipelineDuration)

Serving:

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", metrics.HealthHandler())
	mux.HandleFunc("/ready", metrics.ReadyHandler())

Readiness requires the "store" and "config" components to be registered and
healthy. Liveness is the plain /health response.
*/
package metrics
