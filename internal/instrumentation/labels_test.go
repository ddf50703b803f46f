package instrumentation

import (
	"testing"

	"github.com/teemow/bluebird/internal/draft"
)

func TestLabels(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{ToneLabel(draft.ToneMoreWarm), "more_warm"},
		{ToneLabel(""), LabelOther},
		{ActionLabel(draft.ActionFixGrammar), "fix_grammar"},
		{ActionLabel("translate"), LabelOther},
		{VoteLabel(draft.VoteDown), "down"},
		{VoteLabel("sideways"), LabelOther},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
