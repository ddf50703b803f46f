package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker_Endpoints(t *testing.T) {
	sc, _, _ := newTestServerContext(t)

	tests := []struct {
		name     string
		path     string
		ready    bool
		shutdown bool
		wantCode int
		wantBody string
	}{
		{"liveness", "/healthz", true, false, http.StatusOK, healthStatusOK},
		{"liveness when not ready", "/healthz", false, false, http.StatusOK, healthStatusOK},
		{"ready", "/readyz", true, false, http.StatusOK, healthStatusOK},
		{"not ready", "/readyz", false, false, http.StatusServiceUnavailable, healthStatusNotReady},
		{"detailed", "/healthz/detailed", true, false, http.StatusOK, healthStatusOK},
		{"detailed not ready", "/healthz/detailed", false, false, http.StatusServiceUnavailable, healthStatusNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthChecker(sc)
			h.SetReady(tt.ready)
			mux := http.NewServeMux()
			h.RegisterHealthEndpoints(mux)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body struct {
				Status string `json:"status"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body.Status)
		})
	}
}

func TestHealthChecker_ShuttingDown(t *testing.T) {
	sc, _, _ := newTestServerContext(t)
	h := NewHealthChecker(sc)
	require.NoError(t, sc.Shutdown())

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusShuttingDown, resp.Checks["shutdown"])
	assert.Equal(t, healthStatusOK, resp.Checks["ready"])
}

func TestHealthChecker_DetailedSessions(t *testing.T) {
	sc, _, _ := newTestServerContext(t)
	_, err := sc.Session(t.Context(), "work", "d1")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	NewHealthChecker(sc).DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))

	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Sessions)
	assert.NotEmpty(t, resp.Uptime)
}

func TestHealthChecker_NilContext(t *testing.T) {
	h := NewHealthChecker(nil)
	assert.True(t, h.IsReady())

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
