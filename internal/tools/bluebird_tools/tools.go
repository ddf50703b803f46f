package bluebird_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/bluebird/internal/draft"
	"github.com/teemow/bluebird/internal/server"
	"github.com/teemow/bluebird/internal/session"
	"github.com/teemow/bluebird/internal/tools/batch"
	"github.com/teemow/bluebird/internal/tools/common"
)

// Tool names.
const (
	ToolListOptions   = "bluebird_list_options"
	ToolRewriteDraft  = "bluebird_rewrite_draft"
	ToolSendFeedback  = "bluebird_send_feedback"
	ToolSessionStatus = "bluebird_session_status"
	ToolCloseSessions = "bluebird_close_sessions"
)

const accountDescription = "Account name (default: 'default'). Used to manage multiple Google accounts."

// RegisterBluebirdTools registers the rewrite and feedback tools with the MCP server
func RegisterBluebirdTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listOptionsTool := mcp.NewTool(ToolListOptions,
		mcp.WithDescription("List the tones and actions a draft can be rewritten with"),
	)
	s.AddTool(listOptionsTool, common.InstrumentedToolHandler(ToolListOptions, sc, handleListOptions))

	rewriteTool := mcp.NewTool(ToolRewriteDraft,
		mcp.WithDescription("Rewrite the body of a Gmail draft with Bluebird. The draft is updated in place; recipients and subject are kept."),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithString("draftId",
			mcp.Required(),
			mcp.Description("The ID of the Gmail draft to rewrite"),
		),
		mcp.WithString("tone",
			mcp.Description("Tone to rewrite in (see bluebird_list_options). Defaults to the session's current tone."),
		),
		mcp.WithString("action",
			mcp.Description("Action to apply (see bluebird_list_options). Defaults to the session's current action."),
		),
	)
	s.AddTool(rewriteTool, common.InstrumentedToolHandler(ToolRewriteDraft, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRewriteDraft(ctx, request, sc)
		}))

	feedbackTool := mcp.NewTool(ToolSendFeedback,
		mcp.WithDescription("Send a thumbs up or down about the last rewrite of a draft"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithString("draftId",
			mcp.Required(),
			mcp.Description("The ID of the rewritten Gmail draft"),
		),
		mcp.WithString("vote",
			mcp.Required(),
			mcp.Enum(string(draft.VoteUp), string(draft.VoteDown)),
			mcp.Description("'up' or 'down'"),
		),
	)
	s.AddTool(feedbackTool, common.InstrumentedToolHandler(ToolSendFeedback, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSendFeedback(ctx, request, sc)
		}))

	statusTool := mcp.NewTool(ToolSessionStatus,
		mcp.WithDescription("Show the selection, status line and last rewrite of a draft's session"),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithString("draftId",
			mcp.Required(),
			mcp.Description("The ID of the Gmail draft"),
		),
	)
	s.AddTool(statusTool, common.InstrumentedToolHandler(ToolSessionStatus, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSessionStatus(ctx, request, sc)
		}))

	closeTool := mcp.NewTool(ToolCloseSessions,
		mcp.WithDescription("Forget the sessions of one or more drafts once pending feedback has been sent. The drafts themselves are not touched."),
		mcp.WithString("account",
			mcp.Description(accountDescription),
		),
		mcp.WithString("draftIds",
			mcp.Required(),
			mcp.Description("Draft ID (string) or array of draft IDs"),
		),
	)
	s.AddTool(closeTool, common.InstrumentedToolHandler(ToolCloseSessions, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCloseSessions(ctx, request, sc)
		}))

	return nil
}

func handleListOptions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder
	b.WriteString("Tones:\n")
	for _, t := range draft.Tones() {
		fmt.Fprintf(&b, "- %s: %s\n", t.Value, t.Label)
	}
	b.WriteString("\nActions:\n")
	for _, a := range draft.Actions() {
		fmt.Fprintf(&b, "- %s: %s\n", a.Value, a.Label)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func handleRewriteDraft(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	draftID := common.GetDraftIDFromArgs(args)
	if draftID == "" {
		return mcp.NewToolResultError("draftId is required"), nil
	}

	c, err := sc.Session(ctx, account, draftID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to open draft for account %s: %v", account, err)), nil
	}

	selected := c.State()
	tone, action := selected.Tone, selected.Action
	if v, ok := args["tone"].(string); ok && v != "" {
		tone = draft.Tone(v)
	}
	if v, ok := args["action"].(string); ok && v != "" {
		action = draft.Action(v)
	}

	rec, err := c.RewriteWith(ctx, tone, action)
	if errors.Is(err, session.ErrBusy) {
		return mcp.NewToolResultError(session.ErrBusy.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(session.StatusRewriteFailed), nil
	}

	result := fmt.Sprintf("%s\nTone: %s\nAction: %s\n", session.StatusRewritten, rec.Tone.Label(), rec.Action.Label())
	if !rec.Changed() {
		result += "Bluebird returned the draft unchanged.\n"
	}
	result += fmt.Sprintf("Rate the result with %s (vote 'up' or 'down').", ToolSendFeedback)
	return mcp.NewToolResultText(result), nil
}

func handleSendFeedback(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	draftID := common.GetDraftIDFromArgs(args)
	if draftID == "" {
		return mcp.NewToolResultError("draftId is required"), nil
	}

	voteStr, _ := args["vote"].(string)
	vote := draft.Vote(voteStr)
	if !vote.Valid() {
		return mcp.NewToolResultError("vote must be 'up' or 'down'"), nil
	}

	c, ok := sc.LookupSession(account, draftID)
	if !ok || !c.State().CanVote() {
		return mcp.NewToolResultError(fmt.Sprintf("Draft %s has not been rewritten yet; nothing to rate.", draftID)), nil
	}

	select {
	case <-c.SubmitFeedback(ctx, vote):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	state := c.State()
	if state.Status == session.StatusFeedbackFailed {
		return mcp.NewToolResultError(state.Status), nil
	}
	return mcp.NewToolResultText(state.Status), nil
}

func handleSessionStatus(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	draftID := common.GetDraftIDFromArgs(args)
	if draftID == "" {
		return mcp.NewToolResultError("draftId is required"), nil
	}

	c, ok := sc.LookupSession(account, draftID)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No session for draft %s.", draftID)), nil
	}
	return mcp.NewToolResultText(formatState(draftID, c.State())), nil
}

func formatState(draftID string, s session.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Draft: %s\n", draftID)
	fmt.Fprintf(&b, "Tone: %s\n", s.Tone.Label())
	fmt.Fprintf(&b, "Action: %s\n", s.Action.Label())
	if s.Status != "" {
		fmt.Fprintf(&b, "Status: %s\n", s.Status)
	}
	fmt.Fprintf(&b, "Busy: %t\n", s.Busy)
	if s.FeedbackPending > 0 {
		fmt.Fprintf(&b, "Feedback pending: %d\n", s.FeedbackPending)
	}
	if s.LastDraft != nil {
		fmt.Fprintf(&b, "Last rewrite: %s, %s (changed: %t)\n",
			s.LastDraft.Tone.Label(), s.LastDraft.Action.Label(), s.LastDraft.Changed())
	} else {
		b.WriteString("Last rewrite: none\n")
	}
	return b.String()
}

func handleCloseSessions(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	draftIDs, err := batch.ParseStringOrArray(args["draftIds"], "draftIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := batch.Process(draftIDs, func(id string) (string, error) {
		if err := sc.CloseSession(account, id); err != nil {
			return "", fmt.Errorf("%w %s", err, id)
		}
		return "closed", nil
	})
	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}
