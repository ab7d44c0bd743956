package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/cuemby/oretrace/pkg/validate"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// DBFile is the database file name inside the data directory
const DBFile = "oretrace.db"

var (
	// Bucket names
	bucketFacilities  = []byte("facilities")
	bucketDrivers     = []byte("drivers")
	bucketTrucks      = []byte("trucks")
	bucketShipments   = []byte("shipments")
	bucketBunkerLoads = []byte("bunker_loads")
	bucketLabSamples  = []byte("lab_samples")
	bucketAlerts      = []byte("alerts")
)

// BoltStore implements Store interface using BoltDB
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBoltStore creates a new BoltDB-backed store in dataDir
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, DBFile)

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketFacilities,
			bucketDrivers,
			bucketTrucks,
			bucketShipments,
			bucketBunkerLoads,
			bucketLabSamples,
			bucketAlerts,
		}

		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, now: time.Now}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// sampleKey identifies a lab sample within its sheet
func sampleKey(sheetName, sampleCode string) []byte {
	return []byte(sheetName + "\x00" + sampleCode)
}

// Lab sample operations

// IngestLabSamples writes samples not already stored and returns how many were new.
// The first occurrence of a (sheet, code) pair wins, within one call and across calls.
func (s *BoltStore) IngestLabSamples(samples []types.LabSample) (int, error) {
	added := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLabSamples)
		for _, sample := range samples {
			key := sampleKey(sample.SheetName, sample.SampleCode)
			if b.Get(key) != nil {
				continue
			}
			data, err := json.Marshal(sample)
			if err != nil {
				return fmt.Errorf("failed to marshal sample %s: %w", sample.SampleCode, err)
			}
			if err := b.Put(key, data); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to ingest lab samples: %w", err)
	}
	return added, nil
}

func (s *BoltStore) GetLabSample(sheetName, sampleCode string) (*types.LabSample, error) {
	var sample types.LabSample
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLabSamples)
		data := b.Get(sampleKey(sheetName, sampleCode))
		if data == nil {
			return fmt.Errorf("lab sample not found: %s/%s", sheetName, sampleCode)
		}
		return json.Unmarshal(data, &sample)
	})
	if err != nil {
		return nil, err
	}
	return &sample, nil
}

func (s *BoltStore) ListLabSamples() ([]types.LabSample, error) {
	var samples []types.LabSample
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLabSamples)
		return b.ForEach(func(k, v []byte) error {
			var sample types.LabSample
			if err := json.Unmarshal(v, &sample); err != nil {
				return err
			}
			samples = append(samples, sample)
			return nil
		})
	})
	return samples, err
}

// Shipment operations

// IngestShipments appends shipments. A driver the registry did not know is
// added as pending review, and a truck number seen for the first time is
// registered as active. Existing driver and truck entries are left alone.
func (s *BoltStore) IngestShipments(shipments []types.Shipment) (int, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketShipments)
		for _, shipment := range shipments {
			if err := registerPendingDriver(tx.Bucket(bucketDrivers), shipment.Driver); err != nil {
				return err
			}
			if err := registerTruck(tx.Bucket(bucketTrucks), shipment.TruckNumber); err != nil {
				return err
			}
			if err := putSequenced(b, shipment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to ingest shipments: %w", err)
	}
	return len(shipments), nil
}

func (s *BoltStore) ListShipments() ([]types.Shipment, error) {
	var shipments []types.Shipment
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketShipments)
		return b.ForEach(func(k, v []byte) error {
			var shipment types.Shipment
			if err := json.Unmarshal(v, &shipment); err != nil {
				return err
			}
			shipments = append(shipments, shipment)
			return nil
		})
	})
	return shipments, err
}

func registerPendingDriver(b *bolt.Bucket, info types.DriverInfo) error {
	if info.Known || info.Canonical == "" || b.Get([]byte(info.Canonical)) != nil {
		return nil
	}
	entry := config.DriverEntry{Status: types.DriverStatusPendingReview}
	if info.Original != "" {
		entry.Aliases = []string{info.Original}
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := b.Put([]byte(info.Canonical), data); err != nil {
		return fmt.Errorf("failed to register driver %s: %w", info.Canonical, err)
	}
	return nil
}

func registerTruck(b *bolt.Bucket, number string) error {
	if number == "" || b.Get([]byte(number)) != nil {
		return nil
	}
	data, err := json.Marshal(types.Truck{
		Number:    number,
		Status:    types.TruckStatusActive,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := b.Put([]byte(number), data); err != nil {
		return fmt.Errorf("failed to register truck %s: %w", number, err)
	}
	return nil
}

// Bunker load operations

func (s *BoltStore) IngestBunkerLoads(loads []types.BunkerLoad) (int, error) {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBunkerLoads)
		for _, load := range loads {
			if err := putSequenced(b, load); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to ingest bunker loads: %w", err)
	}
	return len(loads), nil
}

func (s *BoltStore) ListBunkerLoads() ([]types.BunkerLoad, error) {
	var loads []types.BunkerLoad
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBunkerLoads)
		return b.ForEach(func(k, v []byte) error {
			var load types.BunkerLoad
			if err := json.Unmarshal(v, &load); err != nil {
				return err
			}
			loads = append(loads, load)
			return nil
		})
	})
	return loads, err
}

// putSequenced stores v under the bucket's next sequence number, big-endian
// so that iteration order is insertion order.
func putSequenced(b *bolt.Bucket, v interface{}) error {
	seq, err := b.NextSequence()
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return b.Put(key, data)
}

// Alert operations

func (s *BoltStore) IngestAlerts(alerts []validate.Alert) (int, error) {
	now := s.now().UTC()
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAlerts)
		for _, alert := range alerts {
			stored := StoredAlert{ID: uuid.New().String(), CreatedAt: now, Alert: alert}
			if err := putSequenced(b, stored); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to ingest alerts: %w", err)
	}
	return len(alerts), nil
}

// ListAlerts returns stored alerts in the order they were written
func (s *BoltStore) ListAlerts() ([]StoredAlert, error) {
	var alerts []StoredAlert
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAlerts)
		return b.ForEach(func(k, v []byte) error {
			var alert StoredAlert
			if err := json.Unmarshal(v, &alert); err != nil {
				return err
			}
			alerts = append(alerts, alert)
			return nil
		})
	})
	return alerts, err
}

// Reference table operations

func (s *BoltStore) IngestFacilities(facilities config.Facilities) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFacilities)
		for code, facility := range facilities {
			data, err := json.Marshal(facility)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(code), data); err != nil {
				return fmt.Errorf("failed to store facility %s: %w", code, err)
			}
		}
		return nil
	})
}

func (s *BoltStore) ListFacilities() (config.Facilities, error) {
	facilities := config.Facilities{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFacilities)
		return b.ForEach(func(k, v []byte) error {
			var facility config.Facility
			if err := json.Unmarshal(v, &facility); err != nil {
				return err
			}
			facilities[string(k)] = facility
			return nil
		})
	})
	return facilities, err
}

func (s *BoltStore) IngestDrivers(drivers config.Drivers) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDrivers)
		for name, entry := range drivers.Canonical {
			data, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(name), data); err != nil {
				return fmt.Errorf("failed to store driver %s: %w", name, err)
			}
		}
		return nil
	})
}

func (s *BoltStore) ListDrivers() (config.Drivers, error) {
	drivers := config.Drivers{Canonical: map[string]config.DriverEntry{}}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDrivers)
		return b.ForEach(func(k, v []byte) error {
			var entry config.DriverEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			drivers.Canonical[string(k)] = entry
			return nil
		})
	})
	return drivers, err
}

// ListTrucks returns the truck registry ordered by number
func (s *BoltStore) ListTrucks() ([]types.Truck, error) {
	var trucks []types.Truck
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTrucks).ForEach(func(k, v []byte) error {
			var truck types.Truck
			if err := json.Unmarshal(v, &truck); err != nil {
				return err
			}
			trucks = append(trucks, truck)
			return nil
		})
	})
	return trucks, err
}

// Stats counts the records in every bucket
func (s *BoltStore) Stats() (Stats, error) {
	stats := Stats{AlertsByLevel: map[validate.Level]int{}}
	err := s.db.View(func(tx *bolt.Tx) error {
		stats.LabSamples = tx.Bucket(bucketLabSamples).Stats().KeyN
		stats.Shipments = tx.Bucket(bucketShipments).Stats().KeyN
		stats.BunkerLoads = tx.Bucket(bucketBunkerLoads).Stats().KeyN
		stats.Facilities = tx.Bucket(bucketFacilities).Stats().KeyN
		stats.Drivers = tx.Bucket(bucketDrivers).Stats().KeyN
		stats.Trucks = tx.Bucket(bucketTrucks).Stats().KeyN

		return tx.Bucket(bucketAlerts).ForEach(func(k, v []byte) error {
			var alert StoredAlert
			if err := json.Unmarshal(v, &alert); err != nil {
				return err
			}
			stats.AlertsByLevel[alert.Alert.Level]++
			return nil
		})
	})
	if err != nil {
		return Stats{}, fmt.Errorf("failed to collect stats: %w", err)
	}
	return stats, nil
}
