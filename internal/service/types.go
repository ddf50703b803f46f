package service

import "github.com/teemow/bluebird/internal/draft"

// RewriteRequest is the body of POST /v1/rewrite.
type RewriteRequest struct {
	HTML   string       `json:"html"`
	Tone   draft.Tone   `json:"tone"`
	Action draft.Action `json:"action"`
}

// RewriteResponse is the body returned by POST /v1/rewrite. Either field may
// be missing.
type RewriteResponse struct {
	RewrittenHTML string `json:"rewrittenHtml,omitempty"`
	Rewritten     string `json:"rewritten,omitempty"`
}

// ContentOr returns the first non-empty of RewrittenHTML and Rewritten, and
// original when both are empty.
func (r RewriteResponse) ContentOr(original string) string {
	if r.RewrittenHTML != "" {
		return r.RewrittenHTML
	}
	if r.Rewritten != "" {
		return r.Rewritten
	}
	return original
}

// FeedbackRequest is the body of POST /v1/feedback.
type FeedbackRequest struct {
	Vote          draft.Vote   `json:"vote"`
	OriginalHTML  string       `json:"originalHtml"`
	RewrittenHTML string       `json:"rewrittenHtml"`
	Tone          draft.Tone   `json:"tone"`
	Action        draft.Action `json:"action"`
}

// NewFeedbackRequest ties vote to the rewrite described by rec.
func NewFeedbackRequest(vote draft.Vote, rec draft.Record) FeedbackRequest {
	return FeedbackRequest{
		Vote:          vote,
		OriginalHTML:  rec.Original,
		RewrittenHTML: rec.Rewritten,
		Tone:          rec.Tone,
		Action:        rec.Action,
	}
}
