package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Clear key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Clear, k.Quit}}
}

var keys = keyMap{
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear chat"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
