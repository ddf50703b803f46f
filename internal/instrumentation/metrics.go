package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/teemow/bluebird/internal/draft"
)

const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrTool      = "tool"
	attrAccount   = "account"
	attrTone      = "tone"
	attrAction    = "action"
	attrVote      = "vote"
	attrEndpoint  = "endpoint"
)

var (
	durationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
	httpBuckets     = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0}
)

// Metrics records bluebird's metrics. The zero value is a valid no-op
// recorder, which is what a disabled Provider hands out.
type Metrics struct {
	rewritesTotal   metric.Int64Counter
	rewriteDuration metric.Float64Histogram
	feedbackTotal   metric.Int64Counter

	serviceRequestsTotal   metric.Int64Counter
	serviceRequestDuration metric.Float64Histogram

	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram
	activeSessions       metric.Int64UpDownCounter

	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	detailedLabels bool
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{detailedLabels: detailedLabels}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&m.rewritesTotal, "bluebird_rewrites_total", "Total number of rewrite attempts", "{rewrite}"},
		{&m.feedbackTotal, "bluebird_feedback_total", "Total number of feedback submissions", "{vote}"},
		{&m.serviceRequestsTotal, "bluebird_service_requests_total", "Total number of requests to the rewriting service", "{request}"},
		{&m.googleAPIOperationsTotal, "google_api_operations_total", "Total number of Google API operations", "{operation}"},
		{&m.toolInvocationsTotal, "mcp_tool_invocations_total", "Total number of MCP tool invocations", "{invocation}"},
		{&m.httpRequestsTotal, "http_requests_total", "Total number of HTTP requests", "{request}"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}

	histograms := []struct {
		dst     *metric.Float64Histogram
		name    string
		desc    string
		buckets []float64
	}{
		{&m.rewriteDuration, "bluebird_rewrite_duration_seconds", "End-to-end rewrite duration in seconds", durationBuckets},
		{&m.serviceRequestDuration, "bluebird_service_request_duration_seconds", "Rewriting service request duration in seconds", durationBuckets},
		{&m.googleAPIOperationDuration, "google_api_operation_duration_seconds", "Google API operation duration in seconds", durationBuckets},
		{&m.toolDuration, "mcp_tool_duration_seconds", "MCP tool execution duration in seconds", durationBuckets},
		{&m.httpRequestDuration, "http_request_duration_seconds", "HTTP request duration in seconds", httpBuckets},
	}
	for _, h := range histograms {
		histogram, err := meter.Float64Histogram(h.name,
			metric.WithDescription(h.desc),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(h.buckets...),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s histogram: %w", h.name, err)
		}
		*h.dst = histogram
	}

	var err error
	m.activeSessions, err = meter.Int64UpDownCounter(
		"bluebird_active_sessions",
		metric.WithDescription("Number of rewrite sessions held by the MCP server"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bluebird_active_sessions gauge: %w", err)
	}

	return m, nil
}

// RecordRewrite records one rewrite attempt. Status is StatusSuccess,
// StatusError or StatusBusy. Unknown tones and actions are labelled "other".
func (m *Metrics) RecordRewrite(ctx context.Context, tone draft.Tone, action draft.Action, status string, duration time.Duration) {
	if m == nil || m.rewritesTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrTone, ToneLabel(tone)),
		attribute.String(attrAction, ActionLabel(action)),
		attribute.String(attrStatus, status),
	)
	m.rewritesTotal.Add(ctx, 1, attrs)
	if status != StatusBusy {
		m.rewriteDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordFeedback records one settled feedback submission.
func (m *Metrics) RecordFeedback(ctx context.Context, vote draft.Vote, status string) {
	if m == nil || m.feedbackTotal == nil {
		return
	}

	m.feedbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrVote, VoteLabel(vote)),
		attribute.String(attrStatus, status),
	))
}

// RecordServiceRequest records a call to the rewriting service. statusCode is
// 0 when no response was received.
func (m *Metrics) RecordServiceRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if m == nil || m.serviceRequestsTotal == nil {
		return
	}

	status := StatusNetworkError
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	attrs := metric.WithAttributes(
		attribute.String(attrEndpoint, endpoint),
		attribute.String(attrStatus, status),
	)
	m.serviceRequestsTotal.Add(ctx, 1, attrs)
	m.serviceRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordGoogleAPIOperation records a Google API call such as a draft read.
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordToolInvocation records an MCP tool call. The account label is only
// added when detailed labels are enabled.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordHTTPRequest records a request served by the dev service or the MCP
// HTTP transport.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)
	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// IncrementActiveSessions counts a newly created session.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions counts a dropped session.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Add(ctx, -1)
}
