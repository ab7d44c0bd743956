package types

import "time"

// SampleCode is the structured form of a lab sample identifier
type SampleCode struct {
	FacilityCode string `json:"facility_code,omitempty"` // A, B, C or empty when absent
	Prefix       string `json:"prefix,omitempty"`        // Letter prefix of a concatenated code
	Year         string `json:"year"`
	Month        string `json:"month"`
	Day          string `json:"day"`
	Date         string `json:"date"` // YYYY/MM/DD
	SampleType   string `json:"sample_type"`
	SampleNumber string `json:"sample_number"`
	IsSpecial    bool   `json:"is_special"`
	ParseFailed  bool   `json:"parse_failed,omitempty"`
}

// HasFacilityDate reports whether the code carries enough structure to be linked
func (c SampleCode) HasFacilityDate() bool {
	return !c.IsSpecial && !c.ParseFailed && c.FacilityCode != "" && c.Date != ""
}

// LabSample is one gold assay measurement taken at the factory lab
type LabSample struct {
	SampleCode          string   `json:"sample_code"`
	SheetName           string   `json:"sheet_name"`
	AuPPM               *float64 `json:"au_ppm"`
	Detected            bool     `json:"au_detected"`
	BelowDetectionLimit bool     `json:"below_detection_limit"`

	// Parsed sample code fields
	SampleType   string `json:"sample_type"`
	FacilityCode string `json:"facility_code"`
	Date         string `json:"date"`
	Year         string `json:"year"`
	Month        string `json:"month"`
	Day          string `json:"day"`
	SampleNumber string `json:"sample_number"`
	IsSpecial    bool   `json:"is_special"`
}

// DriverInfo is the result of resolving a driver name against the registry
type DriverInfo struct {
	Original  string `json:"original"`
	Canonical string `json:"canonical"`
	Known     bool   `json:"is_known"`
	Status    string `json:"status"`
}

// Driver registry statuses
const (
	DriverStatusActive        = "active"
	DriverStatusPendingReview = "pending_review"
)

// BunkerLoad is one transfer from a grinding facility to the factory
type BunkerLoad struct {
	RowNumber           string     `json:"row_number,omitempty"`
	Date                string     `json:"date"`
	FacilityCode        string     `json:"facility_code"`
	FacilityName        string     `json:"facility_name,omitempty"`
	SheetName           string     `json:"sheet_name,omitempty"`
	TonnageKg           float64    `json:"tonnage_kg"`
	CumulativeTonnageKg float64    `json:"cumulative_tonnage_kg"`
	Driver              DriverInfo `json:"driver_info"`
	TransportCostRial   float64    `json:"transport_cost_rial"`
}

// Shipment is one truck delivery from the mine to a grinding facility
type Shipment struct {
	RowNumber      string     `json:"row_number,omitempty"`
	Date           string     `json:"date"`
	TruckNumber    string     `json:"truck_number"`
	ReceiptNumber  *string    `json:"receipt_number"`
	TonnageKg      float64    `json:"tonnage_kg"`
	Destination    string     `json:"destination"`
	FacilityCode   string     `json:"facility_code,omitempty"` // Derived from Destination
	CostPerTonRial float64    `json:"cost_per_ton_rial"`
	TotalCostRial  float64    `json:"total_cost_rial"`
	Driver         DriverInfo `json:"driver_info"`
	Notes          string     `json:"notes,omitempty"`
}

// Truck is one registered truck, created the first time a shipment names it
type Truck struct {
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Truck registry statuses
const (
	TruckStatusActive   = "active"
	TruckStatusInactive = "inactive"
)

// Trace links a lab sample back through its bunker load to the originating shipments
type Trace struct {
	Sample     LabSample   `json:"sample"`
	BunkerLoad *BunkerLoad `json:"bunker_load"`
	Shipments  []Shipment  `json:"shipments"`
	Complete   bool        `json:"trace_complete"`
}

// TraceReport aggregates traces for a batch of samples
type TraceReport struct {
	Total          int     `json:"total_samples"`
	Linked         int     `json:"linked_count"`
	Unlinked       int     `json:"unlinked_count"`
	LinkRate       float64 `json:"link_rate"`
	LinkedTraces   []Trace `json:"linked_samples"`
	UnlinkedTraces []Trace `json:"unlinked_samples"`
}
