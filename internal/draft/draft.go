package draft

// Tone selects the writing style the service should aim for.
type Tone string

// Known tones.
const (
	ToneDefault    Tone = "default"
	ToneMoreFormal Tone = "more_formal"
	ToneMoreCasual Tone = "more_casual"
	ToneMoreDirect Tone = "more_direct"
	ToneMoreWarm   Tone = "more_warm"
)

// Action selects the kind of rewrite the service should perform.
type Action string

// Known actions.
const (
	ActionRewrite    Action = "rewrite"
	ActionShorter    Action = "shorter"
	ActionLonger     Action = "longer"
	ActionFixGrammar Action = "fix_grammar"
	ActionSummarize  Action = "summarize"
)

// Vote is the thumbs-up/down verdict on the last rewrite.
type Vote string

// Known votes.
const (
	VoteUp   Vote = "up"
	VoteDown Vote = "down"
)

// Option pairs an enumeration value with the label shown to users.
type Option[T ~string] struct {
	Value T
	Label string
}

var tones = []Option[Tone]{
	{ToneDefault, "My default tone"},
	{ToneMoreFormal, "More formal"},
	{ToneMoreCasual, "More casual"},
	{ToneMoreDirect, "More direct"},
	{ToneMoreWarm, "More warm"},
}

var actions = []Option[Action]{
	{ActionRewrite, "Smart rewrite"},
	{ActionShorter, "Shorter"},
	{ActionLonger, "Longer"},
	{ActionFixGrammar, "Fix grammar"},
	{ActionSummarize, "Summarize"},
}

// Tones returns the known tones in display order.
func Tones() []Option[Tone] {
	out := make([]Option[Tone], len(tones))
	copy(out, tones)
	return out
}

// Actions returns the known actions in display order.
func Actions() []Option[Action] {
	out := make([]Option[Action], len(actions))
	copy(out, actions)
	return out
}

// Valid reports whether t is one of the known tones.
func (t Tone) Valid() bool {
	return indexOf(tones, t) >= 0
}

// Label returns the display label for t, or the raw value if t is unknown.
func (t Tone) Label() string {
	if i := indexOf(tones, t); i >= 0 {
		return tones[i].Label
	}
	return string(t)
}

// Next returns the tone after t in display order, wrapping around.
func (t Tone) Next() Tone {
	return tones[(indexOf(tones, t)+1)%len(tones)].Value
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	return indexOf(actions, a) >= 0
}

// Label returns the display label for a, or the raw value if a is unknown.
func (a Action) Label() string {
	if i := indexOf(actions, a); i >= 0 {
		return actions[i].Label
	}
	return string(a)
}

// Next returns the action after a in display order, wrapping around.
func (a Action) Next() Action {
	return actions[(indexOf(actions, a)+1)%len(actions)].Value
}

// Valid reports whether v is "up" or "down".
func (v Vote) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// indexOf returns -1 for unknown values, so Next on an unknown value
// starts over at the first option.
func indexOf[T ~string](opts []Option[T], v T) int {
	for i, o := range opts {
		if o.Value == v {
			return i
		}
	}
	return -1
}

// Record is the snapshot of one successful rewrite. Records are values and
// are replaced wholesale by the next successful rewrite.
type Record struct {
	Original  string
	Rewritten string
	Tone      Tone
	Action    Action
}

// Changed reports whether the service returned something other than the
// original content.
func (r Record) Changed() bool {
	return r.Original != r.Rewritten
}
