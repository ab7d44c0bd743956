package linker

import (
	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/samplecode"
	"github.com/cuemby/oretrace/pkg/types"
)

// DefaultDateToleranceDays is the recorded lookback window for shipments
const DefaultDateToleranceDays = 7

// Linker joins lab samples to bunker loads and bunker loads to the truck
// shipments that fed them.
type Linker struct {
	facilities    config.Facilities
	toleranceDays int
}

// Option configures a Linker
type Option func(*Linker)

// WithDateTolerance records the shipment lookback window in days.
// Dates are compared as strings, so the window is not applied when matching.
func WithDateTolerance(days int) Option {
	return func(l *Linker) {
		l.toleranceDays = days
	}
}

// New creates a linker over the configured facility table
func New(facilities config.Facilities, opts ...Option) *Linker {
	l := &Linker{
		facilities:    facilities,
		toleranceDays: DefaultDateToleranceDays,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DateTolerance returns the configured lookback window in days
func (l *Linker) DateTolerance() int {
	return l.toleranceDays
}

// LinkSampleToBunker returns the first load in input order whose facility and
// date equal those encoded in the sample code. Special and unparseable codes
// never link.
func (l *Linker) LinkSampleToBunker(sample types.LabSample, loads []types.BunkerLoad) *types.BunkerLoad {
	code := samplecode.Parse(sample.SampleCode)
	if !code.HasFacilityDate() {
		return nil
	}

	for i := range loads {
		if loads[i].FacilityCode == code.FacilityCode && loads[i].Date == code.Date {
			load := loads[i]
			return &load
		}
	}
	return nil
}

// LinkBunkerToShipments returns shipments bound for the load's facility that
// arrived on or before the load date. Dates compare lexicographically.
func (l *Linker) LinkBunkerToShipments(load types.BunkerLoad, shipments []types.Shipment) []types.Shipment {
	if load.FacilityCode == "" || load.Date == "" {
		return nil
	}
	dest := l.facilities.DestinationFor(load.FacilityCode)
	if dest == "" {
		return nil
	}

	var linked []types.Shipment
	for _, s := range shipments {
		if s.Destination == dest && s.Date <= load.Date {
			linked = append(linked, s)
		}
	}
	return linked
}

// Trace follows one sample back through its bunker load to the shipments
func (l *Linker) Trace(sample types.LabSample, loads []types.BunkerLoad, shipments []types.Shipment) types.Trace {
	trace := types.Trace{Sample: sample}

	trace.BunkerLoad = l.LinkSampleToBunker(sample, loads)
	if trace.BunkerLoad != nil {
		trace.Shipments = l.LinkBunkerToShipments(*trace.BunkerLoad, shipments)
	}
	trace.Complete = trace.BunkerLoad != nil && len(trace.Shipments) > 0
	return trace
}

// Report traces every sample and partitions the results by whether a bunker
// load was found.
func (l *Linker) Report(samples []types.LabSample, loads []types.BunkerLoad, shipments []types.Shipment) types.TraceReport {
	report := types.TraceReport{
		Total:          len(samples),
		LinkedTraces:   []types.Trace{},
		UnlinkedTraces: []types.Trace{},
	}

	for _, sample := range samples {
		trace := l.Trace(sample, loads, shipments)
		if trace.BunkerLoad != nil {
			report.LinkedTraces = append(report.LinkedTraces, trace)
		} else {
			report.UnlinkedTraces = append(report.UnlinkedTraces, trace)
		}
	}

	report.Linked = len(report.LinkedTraces)
	report.Unlinked = len(report.UnlinkedTraces)
	if report.Total > 0 {
		report.LinkRate = float64(report.Linked) / float64(report.Total)
	}
	return report
}
