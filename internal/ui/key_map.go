package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	inspect key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		inspect: key.NewBinding(key.WithKeys("l", "L"), key.WithHelp("l", "list items")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
		quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.inspect, k.back},
		{k.yes, k.no, k.quit},
	}
}
