package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/mmcdole/mosaic/internal/tui/components"
)

// KeyMap defines the application-level key bindings. Printable keys all go
// to the URL bar, so everything here is a control or function key.
type KeyMap struct {
	Quit           key.Binding
	Escape         key.Binding
	Help           key.Binding
	Forget         key.Binding
	ToggleBackdrop key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear/quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "ctrl+g"),
			key.WithHelp("F1", "help"),
		),
		Forget: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "forget suggestion"),
		),
		ToggleBackdrop: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "toggle backdrop"),
		),
	}
}

// Keys is the global key map
var Keys = DefaultKeyMap()

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{components.URLBarKeys.Submit, components.URLBarKeys.Accept, k.Help, k.Escape}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	bar := components.URLBarKeys
	return [][]key.Binding{
		{bar.Submit, bar.Accept, bar.Next, bar.Prev},
		{k.Forget, k.ToggleBackdrop},
		{k.Help, k.Escape, k.Quit},
	}
}
