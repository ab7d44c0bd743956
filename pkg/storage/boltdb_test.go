package storage

import (
	"testing"
	"time"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/cuemby/oretrace/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func ppm(v float64) *float64 { return &v }

func TestIngestLabSamples_Idempotent(t *testing.T) {
	store := newTestStore(t)

	first := types.LabSample{SampleCode: "A1404101K", SheetName: "Solids", AuPPM: ppm(1.5)}
	added, err := store.IngestLabSamples([]types.LabSample{first})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	second := first
	second.AuPPM = ppm(9.9)
	added, err = store.IngestLabSamples([]types.LabSample{second})
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	got, err := store.GetLabSample("Solids", "A1404101K")
	require.NoError(t, err)
	require.NotNil(t, got.AuPPM)
	assert.Equal(t, 1.5, *got.AuPPM)
}

func TestIngestLabSamples_Keys(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name    string
		samples []types.LabSample
		want    int
	}{
		{
			name: "same code on different sheets",
			samples: []types.LabSample{
				{SampleCode: "A 1404 10 14 K1", SheetName: "Solids"},
				{SampleCode: "A 1404 10 14 K1", SheetName: "Carbon"},
			},
			want: 2,
		},
		{
			name: "duplicate within batch",
			samples: []types.LabSample{
				{SampleCode: "B 1404 10 14 T1", SheetName: "Solids"},
				{SampleCode: "B 1404 10 14 T1", SheetName: "Solids"},
			},
			want: 1,
		},
		{
			name:    "empty batch",
			samples: nil,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, err := store.IngestLabSamples(tt.samples)
			require.NoError(t, err)
			assert.Equal(t, tt.want, added)
		})
	}

	all, err := store.ListLabSamples()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetLabSample_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetLabSample("Solids", "missing")
	assert.Error(t, err)
}

func TestIngestShipments_Order(t *testing.T) {
	store := newTestStore(t)

	batch := make([]types.Shipment, 0, 300)
	for i := 0; i < 300; i++ {
		batch = append(batch, types.Shipment{RowNumber: string(rune('a' + i%26)), TonnageKg: float64(i)})
	}
	n, err := store.IngestShipments(batch)
	require.NoError(t, err)
	assert.Equal(t, 300, n)

	got, err := store.ListShipments()
	require.NoError(t, err)
	require.Len(t, got, 300)
	for i, s := range got {
		assert.Equal(t, float64(i), s.TonnageKg)
	}
}

func TestIngestShipments_RegistersUnknownDrivers(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.IngestDrivers(config.Drivers{Canonical: map[string]config.DriverEntry{
		"Ali Rezaei": {Aliases: []string{"Rezaei"}, Status: types.DriverStatusActive},
	}}))

	_, err := store.IngestShipments([]types.Shipment{
		{Driver: types.DriverInfo{Original: "Rezaei", Canonical: "Ali Rezaei", Known: true}},
		{Driver: types.DriverInfo{Original: " حسن ", Canonical: "حسن", Known: false}},
		{Driver: types.DriverInfo{Original: "حسن", Canonical: "حسن", Known: false}},
		{Driver: types.DriverInfo{}},
	})
	require.NoError(t, err)

	drivers, err := store.ListDrivers()
	require.NoError(t, err)
	require.Len(t, drivers.Canonical, 2)
	assert.Equal(t, config.DriverEntry{Aliases: []string{"Rezaei"}, Status: types.DriverStatusActive},
		drivers.Canonical["Ali Rezaei"])
	assert.Equal(t, config.DriverEntry{Aliases: []string{" حسن "}, Status: types.DriverStatusPendingReview},
		drivers.Canonical["حسن"])
}

func TestIngestShipments_RegistersTrucks(t *testing.T) {
	store := newTestStore(t)

	_, err := store.IngestShipments([]types.Shipment{
		{TruckNumber: "102"},
		{TruckNumber: "101"},
		{TruckNumber: "102"},
		{TruckNumber: ""},
	})
	require.NoError(t, err)

	trucks, err := store.ListTrucks()
	require.NoError(t, err)
	require.Len(t, trucks, 2)
	assert.Equal(t, "101", trucks[0].Number)
	assert.Equal(t, "102", trucks[1].Number)
	assert.Equal(t, types.TruckStatusActive, trucks[1].Status)
	created := trucks[1].CreatedAt
	assert.False(t, created.IsZero())

	_, err = store.IngestShipments([]types.Shipment{{TruckNumber: "102"}})
	require.NoError(t, err)
	trucks, err = store.ListTrucks()
	require.NoError(t, err)
	require.Len(t, trucks, 2)
	assert.True(t, created.Equal(trucks[1].CreatedAt))

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Trucks)
	assert.Equal(t, 5, stats.Shipments)
}

func TestIngestBunkerLoads(t *testing.T) {
	store := newTestStore(t)

	loads := []types.BunkerLoad{
		{Date: "1404/10/14", FacilityCode: "A", TonnageKg: 25000},
		{Date: "1404/10/15", FacilityCode: "B", TonnageKg: 24000},
	}
	_, err := store.IngestBunkerLoads(loads)
	require.NoError(t, err)
	_, err = store.IngestBunkerLoads(loads[:1])
	require.NoError(t, err)

	got, err := store.ListBunkerLoads()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].FacilityCode)
	assert.Equal(t, "B", got[1].FacilityCode)
	assert.Equal(t, "A", got[2].FacilityCode)
}

func TestIngestAlerts(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	store.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	_, err := store.IngestAlerts([]validate.Alert{
		{Level: validate.LevelCritical, Rule: validate.RuleTailingsLoss, Message: "first"},
	})
	require.NoError(t, err)
	_, err = store.IngestAlerts([]validate.Alert{
		{Level: validate.LevelWarning, Rule: validate.RuleMissingReceipt, Message: "second",
			Data: map[string]interface{}{"row": "7"}},
	})
	require.NoError(t, err)

	got, err := store.ListAlerts()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Alert.Message)
	assert.Equal(t, "second", got[1].Alert.Message)
	assert.Equal(t, "7", got[1].Alert.Data["row"])
	assert.NotEmpty(t, got[0].ID)
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.Equal(t, base.Add(time.Minute), got[0].CreatedAt)
}

func TestReferenceTables_Upsert(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.IngestFacilities(config.Facilities{
		"A": {NameEN: "Robat Sefid", TruckDest: "رباط سفید"},
	}))
	require.NoError(t, store.IngestFacilities(config.Facilities{
		"A": {NameEN: "Robat Sefid", TruckDest: "رباط"},
		"B": {NameEN: "Shen Beton"},
	}))

	facilities, err := store.ListFacilities()
	require.NoError(t, err)
	assert.Len(t, facilities, 2)
	assert.Equal(t, "رباط", facilities["A"].TruckDest)

	require.NoError(t, store.IngestDrivers(config.Drivers{Canonical: map[string]config.DriverEntry{
		"Ali Rezaei": {Aliases: []string{"A. Rezaei"}, Status: "active"},
	}}))
	drivers, err := store.ListDrivers()
	require.NoError(t, err)
	assert.Equal(t, []string{"A. Rezaei"}, drivers.Canonical["Ali Rezaei"].Aliases)
}

func TestStats(t *testing.T) {
	store := newTestStore(t)

	_, err := store.IngestLabSamples([]types.LabSample{{SampleCode: "x", SheetName: "s"}})
	require.NoError(t, err)
	_, err = store.IngestShipments([]types.Shipment{{}, {}})
	require.NoError(t, err)
	_, err = store.IngestAlerts([]validate.Alert{
		{Level: validate.LevelCritical},
		{Level: validate.LevelCritical},
		{Level: validate.LevelInfo},
	})
	require.NoError(t, err)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.LabSamples)
	assert.Equal(t, 2, stats.Shipments)
	assert.Equal(t, 0, stats.BunkerLoads)
	assert.Equal(t, 2, stats.AlertsByLevel[validate.LevelCritical])
	assert.Equal(t, 1, stats.AlertsByLevel[validate.LevelInfo])
}

func TestNewBoltStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewBoltStore(dir)
	require.NoError(t, err)
	_, err = store.IngestLabSamples([]types.LabSample{{SampleCode: "SR2", SheetName: "Solids"}})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewBoltStore(dir)
	require.NoError(t, err)
	defer store.Close()

	added, err := store.IngestLabSamples([]types.LabSample{{SampleCode: "SR2", SheetName: "Solids"}})
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}
