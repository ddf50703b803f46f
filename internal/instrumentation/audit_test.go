package instrumentation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	testTool    = "bluebird_rewrite_draft"
	testAccount = "jane@example.com"
	testDraftID = "r-42"
)

func TestToolInvocation_Complete(t *testing.T) {
	ti := NewToolInvocation(testTool).WithTarget(testAccount, testDraftID)
	if ti.StartTime.IsZero() {
		t.Fatal("StartTime should be set")
	}

	ti.Complete(false, errors.New("host write_body failed"))
	if ti.Success || ti.Status() != StatusError {
		t.Errorf("expected failed invocation, got %+v", ti)
	}
	if ti.Error != "host write_body failed" {
		t.Errorf("Error = %q", ti.Error)
	}

	ok := NewToolInvocation(testTool).Complete(true, nil)
	if ok.Status() != StatusSuccess || ok.Error != "" {
		t.Errorf("expected success, got %+v", ok)
	}
}

func TestToolInvocation_WithSpanContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	ti := NewToolInvocation(testTool).WithSpanContext(ctx)
	if ti.TraceID == "" || ti.SpanID == "" {
		t.Errorf("expected trace context, got %+v", ti)
	}

	empty := NewToolInvocation(testTool).WithSpanContext(context.Background())
	if empty.TraceID != "" {
		t.Errorf("expected no trace ID, got %q", empty.TraceID)
	}
}

func TestAuditLogger_PII(t *testing.T) {
	tests := []struct {
		name       string
		includePII bool
		wantEmail  bool
	}{
		{"anonymized", false, false},
		{"with pii", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			al := NewAuditLoggerWithConfig(slog.New(slog.NewTextHandler(&buf, nil)),
				AuditLoggingConfig{Enabled: true, IncludePII: tt.includePII})

			al.LogToolInvocation(NewToolInvocation(testTool).WithTarget(testAccount, testDraftID).Complete(true, nil))

			out := buf.String()
			if strings.Contains(out, testAccount) != tt.wantEmail {
				t.Errorf("email presence = %v, want %v: %s", !tt.wantEmail, tt.wantEmail, out)
			}
			if !strings.Contains(out, "tool_executed") || !strings.Contains(out, testDraftID) {
				t.Errorf("unexpected output: %s", out)
			}
		})
	}
}

func TestAuditLogger_FailureAndDisabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	NewAuditLogger(logger).LogToolInvocation(NewToolInvocation(testTool).Complete(false, errors.New("boom")))
	if !strings.Contains(buf.String(), "tool_failed") || !strings.Contains(buf.String(), "level=WARN") {
		t.Errorf("expected warn record, got %s", buf.String())
	}

	buf.Reset()
	NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: false}).
		LogToolInvocation(NewToolInvocation(testTool).Complete(true, nil))
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %s", buf.String())
	}

	var nilLogger *AuditLogger
	nilLogger.LogToolInvocation(NewToolInvocation(testTool))
}
