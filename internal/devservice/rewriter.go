package devservice

import (
	"context"
	"regexp"
	"strings"

	"github.com/teemow/bluebird/internal/draft"
)

// Rewriter produces the rewritten HTML body of a draft.
type Rewriter interface {
	Rewrite(ctx context.Context, html string, tone draft.Tone, action draft.Action) (string, error)
}

var (
	paragraphRe  = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	spacesRe     = regexp.MustCompile(`[ \t]{2,}`)
	lowercaseIRe = regexp.MustCompile(`(^|\s)i([\s']|$)`)
)

var toneReplacers = map[draft.Tone]*strings.Replacer{
	draft.ToneMoreFormal: strings.NewReplacer(
		"Hi ", "Dear ", "Hey ", "Dear ",
		"Thanks", "Thank you", "thanks", "thank you",
		"Cheers", "Kind regards",
		"can't", "cannot", "won't", "will not", "don't", "do not",
	),
	draft.ToneMoreCasual: strings.NewReplacer(
		"Dear ", "Hi ",
		"Kind regards", "Cheers",
		"Thank you", "Thanks",
		"cannot", "can't", "do not", "don't",
	),
	draft.ToneMoreDirect: strings.NewReplacer(
		"I was wondering if you could", "Please",
		"I think ", "", "just ", "", "maybe ", "",
	),
	draft.ToneMoreWarm: strings.NewReplacer(
		"Thanks", "Thanks so much",
		"Regards", "Warm regards",
	),
}

var closings = map[draft.Tone]string{
	draft.ToneDefault:    "Let me know if you have any questions.",
	draft.ToneMoreFormal: "Please do not hesitate to contact me should you require any further information.",
	draft.ToneMoreCasual: "Let me know what you think!",
	draft.ToneMoreDirect: "Please reply by end of day.",
	draft.ToneMoreWarm:   "I really appreciate your help, and I hope you have a wonderful day.",
}

// Deterministic rewrites with fixed text transforms. The same input always
// gives the same output, which makes it usable in tests and offline.
type Deterministic struct{}

// Rewrite implements Rewriter. An empty body yields an empty result.
func (Deterministic) Rewrite(_ context.Context, html string, tone draft.Tone, action draft.Action) (string, error) {
	paragraphs := splitParagraphs(html)
	if len(paragraphs) == 0 {
		return "", nil
	}

	switch action {
	case draft.ActionShorter:
		for i, p := range paragraphs {
			s := splitSentences(p)
			paragraphs[i] = strings.Join(s[:(len(s)+1)/2], " ")
		}
	case draft.ActionLonger:
		paragraphs = append(paragraphs, closings[tone])
	case draft.ActionFixGrammar:
		for i, p := range paragraphs {
			paragraphs[i] = fixGrammar(p)
		}
	case draft.ActionSummarize:
		var firsts []string
		for _, p := range paragraphs {
			firsts = append(firsts, splitSentences(p)[0])
		}
		paragraphs = []string{"Summary: " + strings.Join(firsts, " ")}
	}

	if r, ok := toneReplacers[tone]; ok {
		for i, p := range paragraphs {
			paragraphs[i] = r.Replace(p)
		}
	}

	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString("<p>")
		b.WriteString(p)
		b.WriteString("</p>")
	}
	return b.String(), nil
}

// splitParagraphs returns the inner HTML of each <p> element, or the whole
// body when it has none. Blank paragraphs are dropped.
func splitParagraphs(html string) []string {
	var out []string
	matches := paragraphRe.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		if s := strings.TrimSpace(html); s != "" {
			out = append(out, s)
		}
		return out
	}
	for _, m := range matches {
		if s := strings.TrimSpace(m[1]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// splitSentences cuts s after '.', '!' or '?' followed by a space or the
// end. It returns at least one element for non-empty input.
func splitSentences(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', '!', '?':
			if i+1 == len(s) || s[i+1] == ' ' {
				if sentence := strings.TrimSpace(s[start : i+1]); sentence != "" {
					out = append(out, sentence)
				}
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		out = append(out, tail)
	}
	if len(out) == 0 {
		out = append(out, s)
	}
	return out
}

func fixGrammar(p string) string {
	p = spacesRe.ReplaceAllString(p, " ")
	p = lowercaseIRe.ReplaceAllString(p, "${1}I${2}")

	sentences := splitSentences(p)
	for i, s := range sentences {
		if s[0] >= 'a' && s[0] <= 'z' {
			sentences[i] = string(s[0]-'a'+'A') + s[1:]
		}
	}
	last := sentences[len(sentences)-1]
	if !strings.ContainsAny(last[len(last)-1:], ".!?>") {
		sentences[len(sentences)-1] = last + "."
	}
	return strings.Join(sentences, " ")
}
