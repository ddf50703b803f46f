package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/teemow/bluebird/internal/draft"
)

func newTestMetrics(t *testing.T, detailed bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), detailed)
	require.NoError(t, err)
	return m, reader
}

// counterPoints returns the data points of the named Int64 sum.
func counterPoints(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			return sum.DataPoints
		}
	}
	return nil
}

func attrValue(dp metricdata.DataPoint[int64], key string) string {
	v, _ := dp.Attributes.Value(attribute.Key(key))
	return v.AsString()
}

func TestMetrics_RecordRewrite(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordRewrite(ctx, draft.ToneMoreFormal, draft.ActionShorter, StatusSuccess, 120*time.Millisecond)
	m.RecordRewrite(ctx, draft.Tone("pirate"), draft.ActionShorter, StatusError, time.Second)

	points := counterPoints(t, reader, "bluebird_rewrites_total")
	require.Len(t, points, 2)

	tones := map[string]string{}
	for _, dp := range points {
		assert.Equal(t, int64(1), dp.Value)
		tones[attrValue(dp, attrStatus)] = attrValue(dp, attrTone)
	}
	assert.Equal(t, "more_formal", tones[StatusSuccess])
	assert.Equal(t, LabelOther, tones[StatusError])
}

func TestMetrics_RecordFeedback(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordFeedback(ctx, draft.VoteUp, StatusSuccess)
	m.RecordFeedback(ctx, draft.VoteUp, StatusSuccess)

	points := counterPoints(t, reader, "bluebird_feedback_total")
	require.Len(t, points, 1)
	assert.Equal(t, int64(2), points[0].Value)
	assert.Equal(t, "up", attrValue(points[0], attrVote))
}

func TestMetrics_RecordServiceRequest(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordServiceRequest(ctx, EndpointRewrite, 502, time.Second)
	m.RecordServiceRequest(ctx, EndpointRewrite, 0, time.Second)

	statuses := map[string]bool{}
	for _, dp := range counterPoints(t, reader, "bluebird_service_requests_total") {
		statuses[attrValue(dp, attrStatus)] = true
		assert.Equal(t, EndpointRewrite, attrValue(dp, attrEndpoint))
	}
	assert.True(t, statuses["502"])
	assert.True(t, statuses[StatusNetworkError])
}

func TestMetrics_ToolInvocationAccountLabel(t *testing.T) {
	tests := []struct {
		name     string
		detailed bool
		want     string
	}{
		{"aggregated", false, ""},
		{"detailed", true, "work"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, reader := newTestMetrics(t, tt.detailed)
			m.RecordToolInvocation(context.Background(), "bluebird_rewrite_draft", StatusSuccess, "work", time.Second)

			points := counterPoints(t, reader, "mcp_tool_invocations_total")
			require.Len(t, points, 1)
			assert.Equal(t, tt.want, attrValue(points[0], attrAccount))
		})
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	ctx := context.Background()
	for _, m := range []*Metrics{nil, {}} {
		m.RecordRewrite(ctx, draft.ToneDefault, draft.ActionRewrite, StatusSuccess, time.Second)
		m.RecordFeedback(ctx, draft.VoteDown, StatusError)
		m.RecordServiceRequest(ctx, EndpointFeedback, 200, time.Second)
		m.RecordGoogleAPIOperation(ctx, ServiceGmail, OperationGetDraft, StatusSuccess, time.Second)
		m.RecordToolInvocation(ctx, "tool", StatusSuccess, "", time.Second)
		m.RecordHTTPRequest(ctx, "POST", "/v1/rewrite", 200, time.Second)
		m.IncrementActiveSessions(ctx)
		m.DecrementActiveSessions(ctx)
	}
}

func TestMetrics_ActiveSessions(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.IncrementActiveSessions(ctx)
	m.IncrementActiveSessions(ctx)
	m.DecrementActiveSessions(ctx)

	points := counterPoints(t, reader, "bluebird_active_sessions")
	require.Len(t, points, 1)
	assert.Equal(t, int64(1), points[0].Value)
}
