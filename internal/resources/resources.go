package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/bluebird/internal/draft"
	"github.com/teemow/bluebird/internal/server"
)

// Resource URIs.
const (
	URIOptions  = "bluebird://options"
	URISessions = "bluebird://sessions"
)

type option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type optionsData struct {
	Tones   []option `json:"tones"`
	Actions []option `json:"actions"`
}

type sessionData struct {
	Account         string    `json:"account"`
	DraftID         string    `json:"draftId"`
	Tone            string    `json:"tone"`
	Action          string    `json:"action"`
	Status          string    `json:"status,omitempty"`
	Busy            bool      `json:"busy"`
	FeedbackPending int       `json:"feedbackPending"`
	HasRewrite      bool      `json:"hasRewrite"`
	LastAccess      time.Time `json:"lastAccess"`
}

// RegisterResources registers the options and sessions resources.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc == nil {
		return fmt.Errorf("server context is required")
	}

	optionsResource := mcp.NewResource(
		URIOptions,
		"Rewrite Options",
		mcp.WithResourceDescription("Tones and actions accepted by bluebird_rewrite_draft"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(optionsResource, func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, options())
	})

	sessionsResource := mcp.NewResource(
		URISessions,
		"Rewrite Sessions",
		mcp.WithResourceDescription("Drafts with an open rewrite session and their current status"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(sessionsResource, func(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, sessions(sc))
	})

	return nil
}

func options() optionsData {
	var data optionsData
	for _, o := range draft.Tones() {
		data.Tones = append(data.Tones, option{Value: string(o.Value), Label: o.Label})
	}
	for _, o := range draft.Actions() {
		data.Actions = append(data.Actions, option{Value: string(o.Value), Label: o.Label})
	}
	return data
}

func sessions(sc *server.ServerContext) []sessionData {
	summaries := sc.Sessions()
	out := make([]sessionData, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, sessionData{
			Account:         s.Account,
			DraftID:         s.DraftID,
			Tone:            string(s.State.Tone),
			Action:          string(s.State.Action),
			Status:          s.State.Status,
			Busy:            s.State.Busy,
			FeedbackPending: s.State.FeedbackPending,
			HasRewrite:      s.State.CanVote(),
			LastAccess:      s.LastAccess,
		})
	}
	return out
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
