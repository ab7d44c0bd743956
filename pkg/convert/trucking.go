package convert

import (
	"sort"

	"github.com/cuemby/oretrace/pkg/normalize"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/shopspring/decimal"
)

// DestinationStats summarizes the shipments to one destination
type DestinationStats struct {
	ShipmentCount  int     `json:"shipment_count"`
	TotalTonnageKg float64 `json:"total_tonnage_kg"`
	TotalCostRial  float64 `json:"total_cost_rial"`
}

// TruckingStats summarizes one trucking conversion
type TruckingStats struct {
	TotalShipments int                         `json:"total_shipments"`
	TotalTonnageKg float64                     `json:"total_tonnage_kg"`
	TotalCostRial  float64                     `json:"total_cost_rial"`
	ByDestination  map[string]DestinationStats `json:"by_destination"`
	UniqueTrucks   []string                    `json:"unique_trucks"`
	UniqueDrivers  []string                    `json:"unique_drivers"`
}

// TruckingResult is the output of Trucking
type TruckingResult struct {
	Shipments  []types.Shipment `json:"shipments"`
	Statistics TruckingStats    `json:"statistics"`
}

type totals struct {
	count         int
	tonnage, cost decimal.Decimal
}

func (t *totals) add(s types.Shipment) {
	t.count++
	t.tonnage = t.tonnage.Add(decimal.NewFromFloat(s.TonnageKg))
	t.cost = t.cost.Add(decimal.NewFromFloat(s.TotalCostRial))
}

// Trucking converts mine-to-facility shipment records
func (c *Converter) Trucking(records []normalize.Record) TruckingResult {
	shipments := []types.Shipment{}
	all := &totals{}
	byDest := map[string]*totals{}
	trucks := map[string]bool{}
	drivers := map[string]bool{}

	for _, r := range records {
		if normalize.IsSummaryRow(r) || normalize.IsNullRow(r) {
			continue
		}
		s := c.shipment(r)
		shipments = append(shipments, s)

		dest := s.Destination
		if dest == "" {
			dest = "Unknown"
		}
		if byDest[dest] == nil {
			byDest[dest] = &totals{}
		}
		byDest[dest].add(s)
		all.add(s)

		if s.TruckNumber != "" {
			trucks[s.TruckNumber] = true
		}
		if s.Driver.Canonical != "" {
			drivers[s.Driver.Canonical] = true
		}
	}

	stats := TruckingStats{
		TotalShipments: len(shipments),
		TotalTonnageKg: all.tonnage.InexactFloat64(),
		TotalCostRial:  all.cost.InexactFloat64(),
		ByDestination:  map[string]DestinationStats{},
		UniqueTrucks:   sortedKeys(trucks),
		UniqueDrivers:  sortedKeys(drivers),
	}
	for dest, t := range byDest {
		stats.ByDestination[dest] = DestinationStats{
			ShipmentCount:  t.count,
			TotalTonnageKg: t.tonnage.InexactFloat64(),
			TotalCostRial:  t.cost.InexactFloat64(),
		}
	}

	return TruckingResult{Shipments: shipments, Statistics: stats}
}

func (c *Converter) shipment(r normalize.Record) types.Shipment {
	s := types.Shipment{
		RowNumber:   normalize.FieldString(r, colRowNumber...),
		Date:        normalize.NormalizeDate(normalize.FieldString(r, colDate...)),
		TruckNumber: normalize.CleanTruckNumber(normalize.Field(r, colTruck...)),
		Destination: normalize.FieldString(r, colDest...),
		Notes:       normalize.FieldString(r, colNotes...),
		Driver:      c.drivers.Canonicalize(normalize.FieldString(r, colDriver...)),
	}
	if receipt := normalize.FieldString(r, colReceipt...); receipt != "" {
		s.ReceiptNumber = &receipt
	}
	s.TonnageKg, _ = normalize.ParseFloat(normalize.Field(r, colTonnage...))
	s.CostPerTonRial, _ = normalize.ParseFloat(normalize.Field(r, colCostPerTon...))
	s.TotalCostRial = normalize.CalculateCost(s.TonnageKg, s.CostPerTonRial)
	s.FacilityCode, _ = c.cfg.Facilities.FacilityForDestination(s.Destination)
	return s
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
