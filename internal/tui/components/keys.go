package components

import "github.com/charmbracelet/bubbles/key"

// URLBarKeyMap defines key bindings handled by the URL bar itself
type URLBarKeyMap struct {
	Submit key.Binding
	Next   key.Binding
	Prev   key.Binding
	Accept key.Binding
}

// DefaultURLBarKeyMap returns the default URL bar key bindings
func DefaultURLBarKeyMap() URLBarKeyMap {
	return URLBarKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add image"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "next suggestion"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "previous suggestion"),
		),
		Accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete"),
		),
	}
}

// URLBarKeys is the URL bar key map in use
var URLBarKeys = DefaultURLBarKeyMap()
