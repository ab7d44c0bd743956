package report

import (
	"fmt"
	"sort"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/shopspring/decimal"
)

// FacilityDay is one facility's activity on the report date
type FacilityDay struct {
	Shipments int     `json:"shipments"`
	ShippedKg float64 `json:"shipped_kg"`
	Loads     int     `json:"loads"`
	LoadedKg  float64 `json:"loaded_kg"`
}

// ShipmentDay holds the shipments of the report date
type ShipmentDay struct {
	Count   int              `json:"count"`
	TotalKg float64          `json:"total_kg"`
	Records []types.Shipment `json:"records"`
}

// BunkerLoadDay holds the bunker loads of the report date
type BunkerLoadDay struct {
	Count   int                `json:"count"`
	TotalKg float64            `json:"total_kg"`
	Records []types.BunkerLoad `json:"records"`
}

// LabSampleDay holds the lab samples of the report date
type LabSampleDay struct {
	Count   int               `json:"count"`
	Records []types.LabSample `json:"records"`
}

// DailyReport summarizes one day of operations
type DailyReport struct {
	Title       string                 `json:"title"`
	Date        string                 `json:"date"`
	Shipments   ShipmentDay            `json:"shipments"`
	BunkerLoads BunkerLoadDay          `json:"bunker_loads"`
	LabSamples  LabSampleDay           `json:"lab_samples"`
	ByFacility  map[string]FacilityDay `json:"by_facility"`
}

// Daily summarizes the records dated date (YYYY/MM/DD). ByFacility has an
// entry for every configured facility, zero when idle, plus any other
// facility code present on the day's records.
func Daily(date string, facilities config.Facilities, shipments []types.Shipment, loads []types.BunkerLoad, samples []types.LabSample) DailyReport {
	report := DailyReport{
		Title:       fmt.Sprintf("Daily Operations Report - %s", date),
		Date:        date,
		Shipments:   ShipmentDay{Records: []types.Shipment{}},
		BunkerLoads: BunkerLoadDay{Records: []types.BunkerLoad{}},
		LabSamples:  LabSampleDay{Records: []types.LabSample{}},
		ByFacility:  map[string]FacilityDay{},
	}
	for code := range facilities {
		report.ByFacility[code] = FacilityDay{}
	}

	shipped := map[string]decimal.Decimal{}
	loaded := map[string]decimal.Decimal{}
	shippedTotal, loadedTotal := decimal.Zero, decimal.Zero

	for _, s := range shipments {
		if s.Date != date {
			continue
		}
		report.Shipments.Records = append(report.Shipments.Records, s)
		kg := decimal.NewFromFloat(s.TonnageKg)
		shippedTotal = shippedTotal.Add(kg)
		if s.FacilityCode != "" {
			day := report.ByFacility[s.FacilityCode]
			day.Shipments++
			report.ByFacility[s.FacilityCode] = day
			shipped[s.FacilityCode] = shipped[s.FacilityCode].Add(kg)
		}
	}

	for _, l := range loads {
		if l.Date != date {
			continue
		}
		report.BunkerLoads.Records = append(report.BunkerLoads.Records, l)
		kg := decimal.NewFromFloat(l.TonnageKg)
		loadedTotal = loadedTotal.Add(kg)
		if l.FacilityCode != "" {
			day := report.ByFacility[l.FacilityCode]
			day.Loads++
			report.ByFacility[l.FacilityCode] = day
			loaded[l.FacilityCode] = loaded[l.FacilityCode].Add(kg)
		}
	}

	for _, s := range samples {
		if s.Date == date {
			report.LabSamples.Records = append(report.LabSamples.Records, s)
		}
	}

	for code, day := range report.ByFacility {
		day.ShippedKg = shipped[code].InexactFloat64()
		day.LoadedKg = loaded[code].InexactFloat64()
		report.ByFacility[code] = day
	}

	report.Shipments.Count = len(report.Shipments.Records)
	report.Shipments.TotalKg = shippedTotal.InexactFloat64()
	report.BunkerLoads.Count = len(report.BunkerLoads.Records)
	report.BunkerLoads.TotalKg = loadedTotal.InexactFloat64()
	report.LabSamples.Count = len(report.LabSamples.Records)
	return report
}

// FacilityCodes returns the ByFacility keys in sorted order
func (r DailyReport) FacilityCodes() []string {
	codes := make([]string, 0, len(r.ByFacility))
	for code := range r.ByFacility {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
