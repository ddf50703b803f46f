package pane

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Focus    key.Binding
	Rewrite  key.Binding
	ThumbsUp key.Binding
	ThumbDn  key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next option")),
		Prev:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous option")),
		Focus:    key.NewBinding(key.WithKeys("tab", "left", "right"), key.WithHelp("tab", "tone/action")),
		Rewrite:  key.NewBinding(key.WithKeys("enter", "r"), key.WithHelp("enter", "rewrite")),
		ThumbsUp: key.NewBinding(key.WithKeys("+", "u"), key.WithHelp("+", "thumbs up")),
		ThumbDn:  key.NewBinding(key.WithKeys("-", "d"), key.WithHelp("-", "thumbs down")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Next, k.Rewrite, k.ThumbsUp, k.ThumbDn, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Next, k.Prev},
		{k.Rewrite, k.ThumbsUp, k.ThumbDn, k.Quit},
	}
}
