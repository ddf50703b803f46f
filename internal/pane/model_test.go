package pane

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/bluebird/internal/draft"
	"github.com/teemow/bluebird/internal/host"
	"github.com/teemow/bluebird/internal/service"
	"github.com/teemow/bluebird/internal/session"
)

type echoService struct {
	mu    sync.Mutex
	votes []draft.Vote
}

func (s *echoService) Rewrite(_ context.Context, req service.RewriteRequest) (*service.RewriteResponse, error) {
	return &service.RewriteResponse{RewrittenHTML: "<p>" + string(req.Tone) + "</p>"}, nil
}

func (s *echoService) Feedback(_ context.Context, req service.FeedbackRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = append(s.votes, req.Vote)
	return nil
}

func newTestModel(t *testing.T) (Model, *session.Controller, *host.Memory, *echoService) {
	t.Helper()
	doc := host.NewMemory("<p>hi</p>")
	svc := &echoService{}
	ctrl := session.NewForHost(doc, svc)
	return New(context.Background(), ctrl, nil), ctrl, doc, svc
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, c := m.Update(msg)
		m = next.(Model)
		cmd = c
	}
	return m, cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func TestModel_Selection(t *testing.T) {
	m, ctrl, _, _ := newTestModel(t)

	m, _ = press(t, m, "down")
	assert.Equal(t, draft.ToneMoreFormal, ctrl.State().Tone)

	m, _ = press(t, m, "up", "up")
	assert.Equal(t, draft.ToneMoreWarm, ctrl.State().Tone, "up wraps around")

	m, _ = press(t, m, "tab", "j", "j")
	assert.Equal(t, draft.ActionLonger, ctrl.State().Action)
	assert.Equal(t, draft.ActionLonger, m.State().Action)
}

func TestModel_Rewrite(t *testing.T) {
	m, _, doc, _ := newTestModel(t)

	m, _ = press(t, m, "down")
	m, cmd := press(t, m, "enter")
	assert.True(t, m.State().Busy)
	assert.Equal(t, session.StatusFetching, m.State().Status)

	// A second trigger while busy does nothing.
	_, again := press(t, m, "r")
	assert.Nil(t, again)

	m = run(t, m, cmd)
	assert.False(t, m.State().Busy)
	assert.Equal(t, session.StatusRewritten, m.State().Status)
	assert.Equal(t, "<p>more_formal</p>", doc.Body())
	assert.True(t, m.State().CanVote())
}

func TestModel_VoteDisabledUntilRewrite(t *testing.T) {
	m, _, _, svc := newTestModel(t)

	_, cmd := press(t, m, "+")
	assert.Nil(t, cmd)

	m, cmd = press(t, m, "enter")
	m = run(t, m, cmd)

	m, cmd = press(t, m, "-")
	m = run(t, m, cmd)
	assert.Equal(t, session.StatusThanksDown, m.State().Status)

	m, cmd = press(t, m, "u")
	m = run(t, m, cmd)
	assert.Equal(t, session.StatusThanksUp, m.State().Status)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, []draft.Vote{draft.VoteDown, draft.VoteUp}, svc.votes)
}

func TestModel_ObserverRefresh(t *testing.T) {
	observe, changes := Notifier()
	ctrl := session.NewForHost(host.NewMemory("<p>hi</p>"), &echoService{}, session.WithObserver(observe))
	m := New(context.Background(), ctrl, changes)

	ctrl.SetAction(draft.ActionSummarize)

	next, cmd := m.Update(m.waitForChange()())
	m = next.(Model)
	assert.Equal(t, draft.ActionSummarize, m.State().Action)
	assert.NotNil(t, cmd, "the pane keeps listening")
}

func TestModel_View(t *testing.T) {
	m, _, _, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "Bluebird")
	assert.Contains(t, view, "My default tone")
	assert.Contains(t, view, "Smart rewrite")
	assert.Contains(t, view, "Rewrite")

	m, cmd := press(t, m, "enter")
	m = run(t, m, cmd)
	assert.Contains(t, m.View(), session.StatusRewritten)
}

func TestModel_Quit(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
