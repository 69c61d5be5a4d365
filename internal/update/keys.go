package update

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the application bindings. Editing keys belong to the textarea.
type KeyMap struct {
	Send  key.Binding
	Focus key.Binding
	Press key.Binding
	Copy  key.Binding
	Paste key.Binding
	Quit  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "send"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Press: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press button"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy completion"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "paste"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Focus, k.Copy, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Press, k.Paste},
		{k.Focus, k.Copy, k.Quit},
	}
}
