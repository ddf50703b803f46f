package devservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/teemow/bluebird/internal/draft"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

const systemPrompt = `You are Bluebird, an assistant that edits email drafts.
You receive the HTML body of a draft and an instruction.
Reply with the edited HTML body only: no commentary, no code fences, no <html> or <body> wrapper.
Keep names, facts, dates and links unchanged.`

var actionInstructions = map[draft.Action]string{
	draft.ActionRewrite:    "Rewrite the email so it reads clearly and naturally.",
	draft.ActionShorter:    "Make the email shorter while keeping every request and fact.",
	draft.ActionLonger:     "Make the email longer by adding helpful detail and context.",
	draft.ActionFixGrammar: "Fix spelling, grammar and punctuation. Change nothing else.",
	draft.ActionSummarize:  "Replace the email with a short summary of it.",
}

// OpenAIConfig configures an OpenAIRewriter.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIRewriter rewrites drafts with an OpenAI chat model.
type OpenAIRewriter struct {
	client openai.Client
	model  string
}

// NewOpenAIRewriter returns a rewriter for cfg. Extra request options are
// appended after the ones derived from cfg.
func NewOpenAIRewriter(cfg OpenAIConfig, opts ...option.RequestOption) (*OpenAIRewriter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &OpenAIRewriter{
		client: openai.NewClient(reqOpts...),
		model:  cfg.Model,
	}, nil
}

// Model returns the chat model in use.
func (o *OpenAIRewriter) Model() string {
	return o.model
}

// Rewrite implements Rewriter.
func (o *OpenAIRewriter) Rewrite(ctx context.Context, html string, tone draft.Tone, action draft.Action) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(html, tone, action)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return trimFences(resp.Choices[0].Message.Content), nil
}

func userPrompt(html string, tone draft.Tone, action draft.Action) string {
	var b strings.Builder
	b.WriteString(actionInstructions[action])
	if tone == draft.ToneDefault {
		b.WriteString(" Keep the author's own tone.")
	} else {
		fmt.Fprintf(&b, " Make the tone %s.", strings.ToLower(tone.Label()))
	}
	b.WriteString("\n\n")
	b.WriteString(html)
	return b.String()
}

// trimFences strips a markdown code fence the model may wrap its answer in.
func trimFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
