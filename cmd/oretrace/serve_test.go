package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cuemby/oretrace/pkg/config"
	"github.com/cuemby/oretrace/pkg/linker"
	"github.com/cuemby/oretrace/pkg/report"
	"github.com/cuemby/oretrace/pkg/storage"
	"github.com/cuemby/oretrace/pkg/types"
	"github.com/cuemby/oretrace/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *storage.BoltStore {
	t.Helper()
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAlertsHandler(t *testing.T) {
	store := newTestStore(t)
	engine := validate.NewDefaultEngine()

	var alerts []validate.Alert
	for _, tonnage := range []float64{5000, 6000, 40000} {
		alerts = append(alerts, engine.ValidateTonnage(tonnage, nil)...)
	}
	_, err := store.IngestAlerts(alerts)
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "all", query: "", want: 3},
		{name: "limited", query: "?limit=2", want: 2},
		{name: "bad limit ignored", query: "?limit=x", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			alertsHandler(store)(rec, httptest.NewRequest(http.MethodGet, "/api/alerts"+tt.query, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var got []storage.StoredAlert
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Len(t, got, tt.want)
		})
	}
}

func TestReportHandler(t *testing.T) {
	store := newTestStore(t)

	_, err := store.IngestLabSamples([]types.LabSample{
		{SampleCode: "A 1404 10 14 K1", SheetName: "Solids"},
		{SampleCode: "STD-1", SheetName: "Solids"},
	})
	require.NoError(t, err)
	_, err = store.IngestBunkerLoads([]types.BunkerLoad{
		{RowNumber: "1", Date: "1404/10/14", FacilityCode: "A", TonnageKg: 25000},
	})
	require.NoError(t, err)

	facilities := config.Facilities{"A": {NameFA: "رباط سفید"}}
	rec := httptest.NewRecorder()
	reportHandler(store, linker.New(facilities))(rec, httptest.NewRequest(http.MethodGet, "/api/report", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var trace types.TraceReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&trace))
	assert.Equal(t, 2, trace.Total)
	assert.Equal(t, 1, trace.Linked)
	assert.Equal(t, 0.5, trace.LinkRate)
}

func au(v float64) *float64 { return &v }

func TestGradeHandler(t *testing.T) {
	store := newTestStore(t)

	_, err := store.IngestLabSamples([]types.LabSample{
		{SampleCode: "A K1", SheetName: "Solids", FacilityCode: "A", SampleType: "K", AuPPM: au(1), Detected: true},
		{SampleCode: "A K2", SheetName: "Solids", FacilityCode: "A", SampleType: "K", AuPPM: au(3), Detected: true},
		{SampleCode: "B K1", SheetName: "Solids", FacilityCode: "B", SampleType: "K", AuPPM: au(50), Detected: true},
	})
	require.NoError(t, err)
	facilities := config.Facilities{"A": {NameEN: "Robat Sefid"}}

	tests := []struct {
		name     string
		query    string
		wantCode int
	}{
		{name: "facility", query: "?facility=A", wantCode: http.StatusOK},
		{name: "missing facility", query: "", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			gradeHandler(store, facilities)(rec, httptest.NewRequest(http.MethodGet, "/api/report/grade"+tt.query, nil))
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				return
			}

			var got report.GradeReport
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, "Grade Report - Robat Sefid", got.Title)
			require.Contains(t, got.ByType, "K")
			assert.Equal(t, 2, got.ByType["K"].Detected)
			assert.Equal(t, 2.0, got.ByType["K"].Average)
		})
	}
}

func TestDailyHandler(t *testing.T) {
	store := newTestStore(t)

	_, err := store.IngestShipments([]types.Shipment{
		{Date: "1404/10/13", FacilityCode: "A", TruckNumber: "101", TonnageKg: 25000},
		{Date: "1404/10/14", FacilityCode: "A", TruckNumber: "101", TonnageKg: 10000},
	})
	require.NoError(t, err)
	_, err = store.IngestBunkerLoads([]types.BunkerLoad{
		{Date: "1404/10/13", FacilityCode: "A", TonnageKg: 20000},
	})
	require.NoError(t, err)
	facilities := config.Facilities{"A": {NameEN: "Robat Sefid"}, "B": {NameEN: "Shen Beton"}}

	rec := httptest.NewRecorder()
	dailyHandler(store, facilities)(rec, httptest.NewRequest(http.MethodGet, "/api/report/daily?date=1404/10/13", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got report.DailyReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 1, got.Shipments.Count)
	assert.Equal(t, 25000.0, got.Shipments.TotalKg)
	assert.Equal(t, report.FacilityDay{Shipments: 1, ShippedKg: 25000, Loads: 1, LoadedKg: 20000}, got.ByFacility["A"])
	assert.Equal(t, report.FacilityDay{}, got.ByFacility["B"])

	rec = httptest.NewRecorder()
	dailyHandler(store, facilities)(rec, httptest.NewRequest(http.MethodGet, "/api/report/daily", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
