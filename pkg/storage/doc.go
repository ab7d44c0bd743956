/*
Package storage provides BoltDB-backed persistence for traceability records.

The storage package implements the Store interface using BoltDB as the
underlying database. Lab samples, bunker loads, truck shipments, alerts and
the facility, driver and truck reference tables live in separate buckets of a
single file. All values are serialized as JSON.

# Architecture

	┌──────────────────── BOLTDB STORAGE ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            BoltStore                        │          │
	│  │  - File: <dataDir>/oretrace.db              │          │
	│  │  - Transactions: ACID with fsync            │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │              Bucket Structure                │          │
	│  │  ┌────────────────────────────────────┐     │          │
	│  │  │ facilities    (facility code)      │     │          │
	│  │  │ drivers       (canonical name)     │     │          │
	│  │  │ trucks        (truck number)       │     │          │
	│  │  │ shipments     (sequence)           │     │          │
	│  │  │ bunker_loads  (sequence)           │     │          │
	│  │  │ lab_samples   (sheet \x00 code)    │     │          │
	│  │  │ alerts        (sequence)           │     │          │
	│  │  └────────────────────────────────────┘     │          │
	│  └────────────────────────────────────────────┘          │
	└────────────────────────────────────────────────────────┘

# Write Contract

Lab samples are keyed by sheet name and sample code. IngestLabSamples skips
any sample whose key is already present, including duplicates earlier in the
same batch, and returns only the number of new rows. Re-running an ingest of
the same workbook is therefore safe.

Shipments and bunker loads have no natural key in the source data and are
appended under the bucket sequence, big-endian encoded so that List returns
them in insertion order.

Alerts are appended the same way and carry a random UUID and the write time.

Facilities and drivers are upserted by facility code and canonical name.

IngestShipments also maintains the registries. A driver the resolver did not
recognize is added under its canonical name with status pending_review, and a
truck number is registered as active the first time it appears. Existing
entries are never overwritten, so a reviewed driver keeps its status.

# Usage

	store, err := storage.NewBoltStore("/var/lib/oretrace")
	if err != nil {
		return err
	}
	defer store.Close()

	added, err := store.IngestLabSamples(samples)
	if err != nil {
		return err
	}
	log.Logger.Info().Int("added", added).Msg("Samples stored")

# Concurrency

BoltDB allows one writer and many readers. A second process opening the same
file waits up to five seconds for the file lock and then fails.
*/
package storage
