package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Focus     key.Binding
	FocusBack key.Binding
	Close     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		FocusBack: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "focus back"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpKeys merges the focused dashlet's bindings with the global ones
type helpKeys struct {
	global  keyMap
	focused []key.Binding
}

// ShortHelp implements help.KeyMap
func (k helpKeys) ShortHelp() []key.Binding {
	bindings := append([]key.Binding{}, k.focused...)
	return append(bindings, k.global.Focus, k.global.Close, k.global.Help, k.global.Quit)
}

// FullHelp implements help.KeyMap
func (k helpKeys) FullHelp() [][]key.Binding {
	var groups [][]key.Binding
	if len(k.focused) > 0 {
		groups = append(groups, k.focused)
	}
	return append(groups,
		[]key.Binding{k.global.Focus, k.global.FocusBack},
		[]key.Binding{k.global.Close, k.global.Help, k.global.Quit},
	)
}
