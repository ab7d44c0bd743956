package convert

import (
	"github.com/cuemby/oretrace/pkg/normalize"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/shopspring/decimal"
)

// FacilityStats summarizes the loads of one facility
type FacilityStats struct {
	FacilityName   string  `json:"facility_name"`
	LoadCount      int     `json:"load_count"`
	TotalTonnageKg float64 `json:"total_tonnage_kg"`
}

// BunkerStats summarizes one bunker conversion
type BunkerStats struct {
	TotalLoads     int                      `json:"total_loads"`
	TotalTonnageKg float64                  `json:"total_tonnage_kg"`
	ByFacility     map[string]FacilityStats `json:"by_facility"`
	SkippedSheets  []string                 `json:"skipped_sheets,omitempty"`
}

// BunkerResult is the output of Bunker
type BunkerResult struct {
	Loads      []types.BunkerLoad `json:"loads"`
	Statistics BunkerStats        `json:"statistics"`
}

// Bunker converts facility sheets to bunker loads. Each sheet name is
// resolved to a facility through the configured bunker sheet names; sheets
// that match no facility are skipped with a warning.
func (c *Converter) Bunker(sheets Sheets) BunkerResult {
	result := BunkerResult{
		Loads:      []types.BunkerLoad{},
		Statistics: BunkerStats{ByFacility: map[string]FacilityStats{}},
	}
	rate := c.cfg.Transport.GrindingToFactoryCostPerTon

	total := decimal.Zero
	for _, sheet := range sheets {
		code, ok := c.cfg.Facilities.FacilityForSheet(sheet.Name)
		if !ok {
			c.logger.Warn().Str("sheet", sheet.Name).Msg("Unknown bunker sheet, skipping")
			result.Statistics.SkippedSheets = append(result.Statistics.SkippedSheets, sheet.Name)
			continue
		}
		facility := c.cfg.Facilities[code]

		stats := result.Statistics.ByFacility[code]
		stats.FacilityName = facility.NameEN
		tonnage := decimal.NewFromFloat(stats.TotalTonnageKg)

		for _, r := range sheet.Records {
			if normalize.IsSummaryRow(r) || normalize.IsNullRow(r) {
				continue
			}
			r = normalize.FixColumnTypos(r)

			load := types.BunkerLoad{
				RowNumber:    normalize.FieldString(r, colRowNumber...),
				Date:         normalize.NormalizeDate(normalize.FieldString(r, colDate...)),
				FacilityCode: code,
				FacilityName: facility.NameEN,
				SheetName:    sheet.Name,
				Driver:       c.drivers.Canonicalize(normalize.FieldString(r, colDriver...)),
			}
			load.TonnageKg, _ = normalize.ParseFloat(normalize.Field(r, colTonnage...))
			load.CumulativeTonnageKg, _ = normalize.ParseFloat(normalize.Field(r, colCumulative...))
			load.TransportCostRial = normalize.CalculateCost(load.TonnageKg, rate)

			result.Loads = append(result.Loads, load)
			stats.LoadCount++
			tonnage = tonnage.Add(decimal.NewFromFloat(load.TonnageKg))
		}

		stats.TotalTonnageKg = tonnage.InexactFloat64()
		result.Statistics.ByFacility[code] = stats
	}

	for _, s := range result.Statistics.ByFacility {
		total = total.Add(decimal.NewFromFloat(s.TotalTonnageKg))
	}
	result.Statistics.TotalLoads = len(result.Loads)
	result.Statistics.TotalTonnageKg = total.InexactFloat64()
	return result
}
