package devservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/bluebird/internal/draft"
)

func TestDeterministic_Actions(t *testing.T) {
	const body = "<p>Hi Sam. I think the report is late. Can you send it?</p><p>Thanks</p>"

	tests := []struct {
		name   string
		html   string
		tone   draft.Tone
		action draft.Action
		want   string
	}{
		{
			name:   "rewrite default keeps paragraphs",
			html:   body,
			tone:   draft.ToneDefault,
			action: draft.ActionRewrite,
			want:   "<p>Hi Sam. I think the report is late. Can you send it?</p><p>Thanks</p>",
		},
		{
			name:   "shorter keeps the first half of each paragraph",
			html:   body,
			tone:   draft.ToneDefault,
			action: draft.ActionShorter,
			want:   "<p>Hi Sam. I think the report is late.</p><p>Thanks</p>",
		},
		{
			name:   "longer appends a closing for the tone",
			html:   "<p>See you.</p>",
			tone:   draft.ToneMoreCasual,
			action: draft.ActionLonger,
			want:   "<p>See you.</p><p>Let me know what you think!</p>",
		},
		{
			name:   "summarize takes first sentences",
			html:   body,
			tone:   draft.ToneDefault,
			action: draft.ActionSummarize,
			want:   "<p>Summary: Hi Sam. Thanks</p>",
		},
		{
			name:   "fix grammar",
			html:   "<p>i think  we are done. see you soon</p>",
			tone:   draft.ToneDefault,
			action: draft.ActionFixGrammar,
			want:   "<p>I think we are done. See you soon.</p>",
		},
		{
			name:   "formal tone",
			html:   "<p>Hi Sam, thanks. I can't make it.</p>",
			tone:   draft.ToneMoreFormal,
			action: draft.ActionRewrite,
			want:   "<p>Dear Sam, thank you. I cannot make it.</p>",
		},
		{
			name:   "direct tone drops hedges",
			html:   body,
			tone:   draft.ToneMoreDirect,
			action: draft.ActionRewrite,
			want:   "<p>Hi Sam. the report is late. Can you send it?</p><p>Thanks</p>",
		},
		{
			name:   "plain text body",
			html:   "Thanks",
			tone:   draft.ToneMoreWarm,
			action: draft.ActionRewrite,
			want:   "<p>Thanks so much</p>",
		},
		{
			name:   "empty body",
			html:   "  ",
			tone:   draft.ToneDefault,
			action: draft.ActionRewrite,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Deterministic{}.Rewrite(context.Background(), tt.html, tt.tone, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitSentences(t *testing.T) {
	assert.Equal(t, []string{"One.", "Two!", "Three"}, splitSentences("One. Two! Three"))
	assert.Equal(t, []string{"v1.2 is out."}, splitSentences("v1.2 is out."))
	assert.Equal(t, []string{"No punctuation"}, splitSentences("No punctuation"))
}

func TestTrimFences(t *testing.T) {
	assert.Equal(t, "<p>x</p>", trimFences("```html\n<p>x</p>\n```"))
	assert.Equal(t, "<p>x</p>", trimFences("  <p>x</p>\n"))
}
