package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	TiltUp    key.Binding
	TiltDown  key.Binding
	TiltLeft  key.Binding
	TiltRight key.Binding
	Rebase    key.Binding
	Next      key.Binding
	Prev      key.Binding
	Tap       key.Binding
	Close     key.Binding
	Source    key.Binding
	Snapshot  key.Binding
	Outputs   key.Binding
	Mute      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		TiltUp:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "tilt up")),
		TiltDown:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "tilt down")),
		TiltLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "tilt left")),
		TiltRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "tilt right")),
		Rebase:    key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "level")),
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next card")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev card")),
		Tap:       key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "pop")),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Source:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "tilt source")),
		Snapshot:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "snapshot")),
		Outputs:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "outputs")),
		Mute:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Tap, k.Close, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TiltUp, k.TiltDown, k.TiltLeft, k.TiltRight, k.Rebase},
		{k.Next, k.Prev, k.Tap, k.Close},
		{k.Source, k.Snapshot, k.Outputs, k.Mute, k.Help, k.Quit},
	}
}
