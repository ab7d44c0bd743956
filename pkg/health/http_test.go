package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPChecker(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		statusRange [2]int
		wantHealthy bool
	}{
		{name: "ok", status: http.StatusOK, wantHealthy: true},
		{name: "server error", status: http.StatusInternalServerError, wantHealthy: false},
		{name: "unauthorized token", status: http.StatusUnauthorized, wantHealthy: false},
		{name: "custom range", status: http.StatusUnauthorized, statusRange: [2]int{200, 499}, wantHealthy: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			checker := NewHTTPChecker("telegram", server.URL+"/botTOKEN/getMe")
			if tt.statusRange != [2]int{} {
				checker.WithStatusRange(tt.statusRange[0], tt.statusRange[1])
			}

			result := checker.Check(context.Background())
			assert.Equal(t, tt.wantHealthy, result.Healthy, result.Message)
			assert.False(t, result.CheckedAt.IsZero())
		})
	}
}

func TestHTTPChecker_HidesURLOnFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL + "/botSECRET/getMe"
	server.Close()

	result := NewHTTPChecker("telegram", url).Check(context.Background())
	assert.False(t, result.Healthy)
	assert.NotContains(t, result.Message, "SECRET")
}
