package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/teemow/bluebird/internal/instrumentation"
)

func TestHTTPServer_Routes(t *testing.T) {
	sc, _, _ := newTestServerContext(t)
	health := NewHealthChecker(sc)
	srv := NewHTTPServer(mcpserver.NewMCPServer("bluebird", "test"), health, false)
	h := srv.Handler()

	tests := []struct {
		path     string
		wantCode int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHTTPServer_RecordsRequests(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()
	metrics, err := instrumentation.NewMetrics(mp.Meter("test"), false)
	require.NoError(t, err)

	sc, _, _ := newTestServerContext(t)
	srv := NewHTTPServer(mcpserver.NewMCPServer("bluebird", "test"), NewHealthChecker(sc), false)
	srv.SetMetrics(metrics)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_requests_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.Len(t, sum.DataPoints, 1)
			path, _ := sum.DataPoints[0].Attributes.Value("path")
			assert.Equal(t, "/healthz", path.AsString())
			found = true
		}
	}
	assert.True(t, found, "http_requests_total was not recorded")
}

func TestHTTPServer_ShutdownWithoutStart(t *testing.T) {
	srv := NewHTTPServer(mcpserver.NewMCPServer("bluebird", "test"), nil, true)
	assert.NoError(t, srv.Shutdown(context.Background()))
}
