package pane

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#1D9BF0")
	colorMuted  = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginBottom(1)

	labelStyle        = lipgloss.NewStyle().Bold(true).Width(8)
	focusedLabelStyle = labelStyle.Foreground(colorAccent)

	optionStyle   = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = optionStyle.Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(colorAccent)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorAccent)
	disabledStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(colorMuted)

	statusStyle = lipgloss.NewStyle().Italic(true).MarginTop(1)
	paneStyle   = lipgloss.NewStyle().Padding(1, 2)
)
