package ingest

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cuemby/oretrace/pkg/alert"
	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/convert"
	"github.com/cuemby/oretrace/pkg/events"
	"github.com/cuemby/oretrace/pkg/linker"
	"github.com/cuemby/oretrace/pkg/log"
	"github.com/cuemby/oretrace/pkg/metrics"
	"github.com/cuemby/oretrace/pkg/normalize"
	"github.com/cuemby/oretrace/pkg/storage"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/cuemby/oretrace/pkg/validate"
)

// Input is one batch of raw records
type Input struct {
	Trucking []normalize.Record
	Bunker   convert.Sheets
	Assay    convert.Sheets
}

// Result describes what one Run converted, raised and stored
type Result struct {
	Shipments      int                   `json:"shipments"`
	BunkerLoads    int                   `json:"bunker_loads"`
	Samples        int                   `json:"samples"`
	SamplesAdded   int                   `json:"samples_added"`
	SamplesSkipped int                   `json:"samples_skipped"`
	Trucking       convert.TruckingStats `json:"trucking"`
	Bunker         convert.BunkerStats   `json:"bunker"`
	Assay          convert.AssayStats    `json:"assay"`
	Alerts         alert.Summary         `json:"alerts"`
	Report         types.TraceReport     `json:"report"`
}

// Pipeline converts a batch, routes its alerts and persists everything to
// an explicitly supplied store
type Pipeline struct {
	Store  storage.Store
	Router *alert.Router
	Config *config.Config

	// Events, when set, receives an ingest.completed event per run
	Events *events.Broker
}

// New creates a pipeline whose router validates with the configured
// thresholds and driver registry
func New(store storage.Store, cfg *config.Config) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	engine := validate.NewEngine(cfg.Thresholds, normalize.NewDriverRegistry(cfg.Drivers))
	return &Pipeline{
		Store:  store,
		Router: alert.NewRouter(engine),
		Config: cfg,
	}
}

// Run processes one batch. Conversion and validation never fail; storage
// errors abort the run and are returned.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.PipelineDuration)
	logger := log.WithComponent("ingest")

	conv := convert.New(p.Config)
	trucking := conv.Trucking(in.Trucking)
	bunker := conv.Bunker(in.Bunker)
	assay := conv.Assay(in.Assay)

	metrics.RecordsConverted.WithLabelValues("trucking").Add(float64(len(trucking.Shipments)))
	metrics.RecordsConverted.WithLabelValues("bunker").Add(float64(len(bunker.Loads)))
	metrics.RecordsConverted.WithLabelValues("assay").Add(float64(len(assay.Samples)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := p.Router.ProcessAndSend(ctx, trucking.Shipments, assay.Samples)

	if err := p.Store.IngestFacilities(p.Config.Facilities); err != nil {
		return nil, fmt.Errorf("failed to store facilities: %w", err)
	}
	if err := p.Store.IngestDrivers(p.Config.Drivers); err != nil {
		return nil, fmt.Errorf("failed to store drivers: %w", err)
	}
	if _, err := p.Store.IngestShipments(trucking.Shipments); err != nil {
		return nil, err
	}
	if _, err := p.Store.IngestBunkerLoads(bunker.Loads); err != nil {
		return nil, err
	}
	added, err := p.Store.IngestLabSamples(assay.Samples)
	if err != nil {
		return nil, err
	}
	if _, err := p.Store.IngestAlerts(summary.Alerts); err != nil {
		return nil, err
	}

	skipped := len(assay.Samples) - added
	metrics.SamplesIngested.Add(float64(added))
	metrics.SamplesSkipped.Add(float64(skipped))

	report := linker.New(p.Config.Facilities).Report(assay.Samples, bunker.Loads, trucking.Shipments)
	RecordReport(report)

	result := &Result{
		Shipments:      len(trucking.Shipments),
		BunkerLoads:    len(bunker.Loads),
		Samples:        len(assay.Samples),
		SamplesAdded:   added,
		SamplesSkipped: skipped,
		Trucking:       trucking.Statistics,
		Bunker:         bunker.Statistics,
		Assay:          assay.Statistics,
		Alerts:         summary,
		Report:         report,
	}

	logger.Info().
		Int("shipments", result.Shipments).
		Int("bunker_loads", result.BunkerLoads).
		Int("samples_added", added).
		Int("samples_skipped", skipped).
		Int("alerts", summary.TotalAlerts).
		Float64("link_rate", report.LinkRate).
		Dur("duration", timer.Duration()).
		Msg("Ingest completed")

	if p.Events != nil {
		err := p.Events.Publish(ctx, &events.Event{
			Type:    events.EventIngestComplete,
			Message: "Ingest completed",
			Metadata: map[string]string{
				"samples_added": strconv.Itoa(added),
				"alerts":        strconv.Itoa(summary.TotalAlerts),
			},
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to publish ingest event")
		}
	}

	return result, nil
}

// RecordReport updates the trace metrics from a report
func RecordReport(report types.TraceReport) {
	for _, t := range report.LinkedTraces {
		if t.Complete {
			metrics.TracesTotal.WithLabelValues("complete").Inc()
		} else {
			metrics.TracesTotal.WithLabelValues("partial").Inc()
		}
	}
	metrics.TracesTotal.WithLabelValues("unlinked").Add(float64(report.Unlinked))
	metrics.LinkRate.Set(report.LinkRate)
}
