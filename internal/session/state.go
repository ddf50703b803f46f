package session

import (
	"errors"

	"github.com/teemow/bluebird/internal/draft"
)

// Status lines shown to the author.
const (
	StatusFetching        = "Fetching draft from Bluebird…"
	StatusRewritten       = "Draft updated by Bluebird."
	StatusRewriteFailed   = "Error rewriting draft. Please try again."
	StatusSendingFeedback = "Sending feedback…"
	StatusThanksUp        = "Thanks for the thumbs up 💙"
	StatusThanksDown      = "Thanks, we’ll use this to improve Bluebird."
	StatusFeedbackFailed  = "Could not send feedback."
)

// ErrBusy is what front ends report when Rewrite rejects a trigger.
var ErrBusy = errors.New("a rewrite is already in progress")

// State is a snapshot of a controller's session.
type State struct {
	Tone   draft.Tone
	Action draft.Action
	Status string
	Busy   bool

	// FeedbackPending counts feedback submissions that have not settled.
	FeedbackPending int

	// LastDraft is the most recent successful rewrite, or nil.
	LastDraft *draft.Record

	// Seq increases with every transition. Observers can use it to drop
	// snapshots that arrive out of order.
	Seq uint64
}

// CanRewrite reports whether a rewrite trigger would be accepted.
func (s State) CanRewrite() bool {
	return !s.Busy
}

// CanVote reports whether a vote would be sent.
func (s State) CanVote() bool {
	return s.LastDraft != nil
}

func (s State) clone() State {
	if s.LastDraft != nil {
		rec := *s.LastDraft
		s.LastDraft = &rec
	}
	return s
}
