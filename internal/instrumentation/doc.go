// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for bluebird.
//
// # Metrics
//
// Rewrite flow:
//   - bluebird_rewrites_total{tone,action,status}: rewrite attempts, status is success, error or busy
//   - bluebird_rewrite_duration_seconds: end-to-end rewrite duration
//   - bluebird_feedback_total{vote,status}: settled feedback submissions
//   - bluebird_service_requests_total{endpoint,status}: calls to the rewriting service by HTTP status
//   - bluebird_service_request_duration_seconds
//
// Hosts and front ends:
//   - google_api_operations_total / google_api_operation_duration_seconds: Gmail draft reads and writes
//   - mcp_tool_invocations_total / mcp_tool_duration_seconds
//   - bluebird_active_sessions: sessions held by the MCP server
//   - http_requests_total / http_request_duration_seconds: the dev service
//
// Tone, action and vote labels are clamped to their known values.
//
// # Configuration
//
// Environment variables:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: bluebird)
//   - METRICS_DETAILED_LABELS, AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_PII
//
// # Example
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordRewrite(ctx, draft.ToneMoreFormal, draft.ActionShorter,
//		instrumentation.StatusSuccess, time.Since(start))
package instrumentation
