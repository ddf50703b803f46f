package instrumentation

import "github.com/teemow/bluebird/internal/draft"

// The controller forwards tone and action values it does not know about, so
// metric labels are clamped to the known sets to keep cardinality bounded.

// ToneLabel returns tone, or LabelOther if it is not a known tone.
func ToneLabel(tone draft.Tone) string {
	if tone.Valid() {
		return string(tone)
	}
	return LabelOther
}

// ActionLabel returns action, or LabelOther if it is not a known action.
func ActionLabel(action draft.Action) string {
	if action.Valid() {
		return string(action)
	}
	return LabelOther
}

// VoteLabel returns vote, or LabelOther if it is neither up nor down.
func VoteLabel(vote draft.Vote) string {
	if vote.Valid() {
		return string(vote)
	}
	return LabelOther
}
