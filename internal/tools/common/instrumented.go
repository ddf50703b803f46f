package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/bluebird/internal/instrumentation"
	"github.com/teemow/bluebird/internal/server"
)

// ToolHandler is the signature of an MCP tool handler. It is an alias so that
// wrapped handlers can be passed straight to AddTool.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a span, metrics and
// audit logging. A result with IsError set counts as a failure.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		args := request.GetArguments()
		account := GetAccountFromArgs(args)
		draftID := GetDraftIDFromArgs(args)

		ctx, span := instrumentation.StartToolSpan(ctx, toolName,
			attribute.String(instrumentation.SpanAttrAccount, account),
			attribute.String(instrumentation.SpanAttrDraft, draftID),
		)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithTarget(account, draftID).
			WithSpanContext(ctx)

		result, err := handler(ctx, request)

		failure := err
		if failure == nil && result != nil && result.IsError {
			failure = toolResultError(result)
		}
		invocation.Complete(failure == nil, failure)
		if failure == nil {
			instrumentation.SetSpanSuccess(span)
		} else {
			instrumentation.SetSpanError(span, failure)
		}

		metrics.RecordToolInvocation(ctx, toolName, invocation.Status(), account, time.Since(start))
		auditLogger.LogToolInvocation(invocation)

		return result, err
	}
}

type resultError string

func (e resultError) Error() string { return string(e) }

// toolResultError turns the text of an error result into an error for
// logging.
func toolResultError(result *mcp.CallToolResult) error {
	for _, c := range result.Content {
		if text, ok := mcp.AsTextContent(c); ok {
			return resultError(text.Text)
		}
	}
	return resultError("tool returned an error result")
}
