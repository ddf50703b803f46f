package pane

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teemow/bluebird/internal/draft"
	"github.com/teemow/bluebird/internal/session"
)

// Controller is the part of *session.Controller the pane drives.
type Controller interface {
	State() session.State
	SetTone(draft.Tone)
	SetAction(draft.Action)
	RewriteSelected(ctx context.Context) bool
	SubmitFeedback(ctx context.Context, vote draft.Vote) <-chan struct{}
}

type focus int

const (
	focusTone focus = iota
	focusAction
)

// stateChangedMsg tells the model to re-read the controller state.
type stateChangedMsg struct{}

type rewriteDoneMsg struct{ accepted bool }

type feedbackDoneMsg struct{}

// Model is the bubbletea model of the pane.
type Model struct {
	ctx     context.Context
	ctrl    Controller
	changes <-chan struct{}

	state   session.State
	focus   focus
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
}

// Notifier returns a session observer and the channel the pane listens on.
// Pass the observer to session.WithObserver and the channel to New.
func Notifier() (func(session.State), <-chan struct{}) {
	ch := make(chan struct{}, 1)
	return func(session.State) {
		select {
		case ch <- struct{}{}:
		default:
		}
	}, ch
}

// New returns a pane over ctrl. changes may be nil, in which case the pane
// only refreshes after its own commands.
func New(ctx context.Context, ctrl Controller, changes <-chan struct{}) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		changes: changes,
		state:   ctrl.State(),
		spinner: s,
		help:    help.New(),
		keys:    defaultKeyMap(),
	}
}

// State returns the controller state the pane last rendered.
func (m Model) State() session.State {
	return m.state
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.spinner.Tick)
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateChangedMsg:
		m.state = m.ctrl.State()
		return m, m.waitForChange()

	case rewriteDoneMsg, feedbackDoneMsg:
		m.state = m.ctrl.State()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusTone {
			m.focus = focusAction
		} else {
			m.focus = focusTone
		}

	case key.Matches(msg, m.keys.Next):
		m.step(1)

	case key.Matches(msg, m.keys.Prev):
		m.step(-1)

	case key.Matches(msg, m.keys.Rewrite):
		if !m.state.CanRewrite() {
			return m, nil
		}
		// Busy is shown right away; the controller confirms it.
		m.state.Busy = true
		m.state.Status = session.StatusFetching
		ctx, ctrl := m.ctx, m.ctrl
		return m, func() tea.Msg {
			return rewriteDoneMsg{accepted: ctrl.RewriteSelected(ctx)}
		}

	case key.Matches(msg, m.keys.ThumbsUp):
		return m, m.vote(draft.VoteUp)

	case key.Matches(msg, m.keys.ThumbDn):
		return m, m.vote(draft.VoteDown)
	}
	return m, nil
}

// step moves the focused picker by delta, wrapping around.
func (m *Model) step(delta int) {
	if m.focus == focusTone {
		m.state.Tone = cycle(draft.Tones(), m.state.Tone, delta)
		m.ctrl.SetTone(m.state.Tone)
		return
	}
	m.state.Action = cycle(draft.Actions(), m.state.Action, delta)
	m.ctrl.SetAction(m.state.Action)
}

func (m Model) vote(v draft.Vote) tea.Cmd {
	if !m.state.CanVote() {
		return nil
	}
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		<-ctrl.SubmitFeedback(ctx, v)
		return feedbackDoneMsg{}
	}
}

func cycle[T ~string](opts []draft.Option[T], current T, delta int) T {
	idx := 0
	for i, o := range opts {
		if o.Value == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(opts)) % len(opts)
	return opts[idx].Value
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Bluebird"))
	b.WriteString("\n")
	b.WriteString(m.pickerRow("Tone", m.focus == focusTone, optionLabels(draft.Tones(), m.state.Tone)))
	b.WriteString("\n")
	b.WriteString(m.pickerRow("Action", m.focus == focusAction, optionLabels(draft.Actions(), m.state.Action)))
	b.WriteString("\n\n")

	var button string
	if m.state.Busy {
		button = lipgloss.JoinHorizontal(lipgloss.Left, disabledStyle.Render("Rewrite"), m.spinner.View())
	} else {
		button = buttonStyle.Render("Rewrite")
	}

	thumbs := disabledStyle
	if m.state.CanVote() {
		thumbs = optionStyle
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
		button, "  ", thumbs.Render("👍"), thumbs.Render("👎")))

	if m.state.Status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.state.Status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return paneStyle.Render(b.String())
}

func (m Model) pickerRow(label string, focused bool, options []string) string {
	ls := labelStyle
	if focused {
		ls = focusedLabelStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, append([]string{ls.Render(label)}, options...)...)
}

func optionLabels[T ~string](opts []draft.Option[T], selected T) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		if o.Value == selected {
			out = append(out, selectedStyle.Render(o.Label))
		} else {
			out = append(out, optionStyle.Render(o.Label))
		}
	}
	return out
}

// Run starts the pane on the terminal and blocks until the user quits.
func Run(ctx context.Context, ctrl Controller, changes <-chan struct{}) error {
	_, err := tea.NewProgram(New(ctx, ctrl, changes), tea.WithContext(ctx)).Run()
	return err
}
