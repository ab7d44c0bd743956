package metrics

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cuemby/oretrace/pkg/storage"
	"github.com/cuemby/oretrace/pkg/validate"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetHealth() {
	healthChecker = newHealthChecker()
}

func TestGetHealth(t *testing.T) {
	resetHealth()
	SetVersion("1.0.0")

	UpdateComponent(ComponentStore, true, "")
	UpdateComponent(ComponentConfig, true, "")
	health := GetHealth()
	assert.Equal(t, "healthy", health.Status)
	assert.Len(t, health.Components, 2)
	assert.Equal(t, "1.0.0", health.Version)

	UpdateComponent(ComponentStore, false, "database locked")
	health = GetHealth()
	assert.Equal(t, "unhealthy", health.Status)
	assert.Equal(t, "unhealthy: database locked", health.Components[ComponentStore])
}

func TestGetReadiness(t *testing.T) {
	tests := []struct {
		name       string
		setup      func()
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "nothing registered",
			setup:      func() {},
			wantStatus: "not_ready",
		},
		{
			name: "all ready",
			setup: func() {
				UpdateComponent(ComponentStore, true, "")
				UpdateComponent(ComponentConfig, true, "")
			},
			wantStatus: "ready",
		},
		{
			name: "config failed",
			setup: func() {
				UpdateComponent(ComponentStore, true, "")
				UpdateComponent(ComponentConfig, false, "bad yaml")
			},
			wantStatus: "not_ready",
			wantMsg:    "waiting for config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetHealth()
			tt.setup()
			r := GetReadiness()
			assert.Equal(t, tt.wantStatus, r.Status)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, r.Message)
			}
		})
	}
}

func TestHealthHandlers(t *testing.T) {
	resetHealth()
	UpdateComponent(ComponentStore, false, "closed")

	rec := httptest.NewRecorder()
	HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "unhealthy", body.Status)

	rec = httptest.NewRecorder()
	ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	UpdateComponent(ComponentStore, true, "")
	UpdateComponent(ComponentConfig, true, "")
	rec = httptest.NewRecorder()
	ReadyHandler()(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

type fakeStats struct {
	stats storage.Stats
	err   error
}

func (f fakeStats) Stats() (storage.Stats, error) { return f.stats, f.err }

func TestCollector_Collect(t *testing.T) {
	resetHealth()

	c := NewCollector(fakeStats{stats: storage.Stats{
		LabSamples:    12,
		Shipments:     4,
		BunkerLoads:   2,
		AlertsByLevel: map[validate.Level]int{validate.LevelCritical: 3},
	}}, 0)
	c.Collect()

	assert.Equal(t, 12.0, testutil.ToFloat64(LabSamplesStored))
	assert.Equal(t, 4.0, testutil.ToFloat64(ShipmentsStored))
	assert.Equal(t, 3.0, testutil.ToFloat64(AlertsStored.WithLabelValues("critical")))
	assert.Equal(t, 0.0, testutil.ToFloat64(AlertsStored.WithLabelValues("info")))
	assert.Equal(t, "healthy", GetHealth().Components[ComponentStore])

	NewCollector(fakeStats{err: errors.New("database not open")}, 0).Collect()
	assert.Equal(t, "unhealthy: database not open", GetHealth().Components[ComponentStore])
}
