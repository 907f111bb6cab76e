package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the editor's key bindings.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Pick   key.Binding
	Drop   key.Binding
	Remove key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

var defaultKeys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left", "shift+tab"),
		key.WithHelp("h/←", "prev zone"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right", "tab"),
		key.WithHelp("l/→/Tab", "next zone"),
	),
	Pick: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "pick up"),
	),
	Drop: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "drop"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "remove"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// help returns the bindings shown in the footer for the current mode.
func (k keyMap) help(dragging bool) []key.Binding {
	if dragging {
		return []key.Binding{k.Left, k.Right, k.Up, k.Drop, k.Remove, k.Cancel}
	}
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Pick, k.Remove, k.Quit}
}
