package storage

import (
	"time"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/cuemby/oretrace/pkg/validate"
)

// Store defines the interface for the traceability record store.
// This is implemented by BoltDB-backed storage.
type Store interface {
	// Lab samples. Ingestion is idempotent per (sheet, sample code).
	IngestLabSamples(samples []types.LabSample) (int, error)
	GetLabSample(sheetName, sampleCode string) (*types.LabSample, error)
	ListLabSamples() ([]types.LabSample, error)

	// Logistics records, appended in input order. Ingesting shipments also
	// registers unknown drivers as pending review and new truck numbers.
	IngestShipments(shipments []types.Shipment) (int, error)
	ListShipments() ([]types.Shipment, error)
	IngestBunkerLoads(loads []types.BunkerLoad) (int, error)
	ListBunkerLoads() ([]types.BunkerLoad, error)

	// Alerts
	IngestAlerts(alerts []validate.Alert) (int, error)
	ListAlerts() ([]StoredAlert, error)

	// Reference tables, upserted by key
	IngestFacilities(facilities config.Facilities) error
	ListFacilities() (config.Facilities, error)
	IngestDrivers(drivers config.Drivers) error
	ListDrivers() (config.Drivers, error)
	ListTrucks() ([]types.Truck, error)

	// Utility
	Stats() (Stats, error)
	Close() error
}

// StoredAlert is an alert as persisted, with its key and write time
type StoredAlert struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Alert     validate.Alert `json:"alert"`
}

// Stats holds record counts per bucket
type Stats struct {
	LabSamples    int
	Shipments     int
	BunkerLoads   int
	Facilities    int
	Drivers       int
	Trucks        int
	AlertsByLevel map[validate.Level]int
}
