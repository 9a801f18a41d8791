package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap binds the three front-panel buttons and the display toggles.
type keyMap struct {
	Start       key.Binding
	Stop        key.Binding
	Reset       key.Binding
	Trigger     key.Binding
	Persistence key.Binding
	Spectrum    key.Binding
	Listen      key.Binding
	VolumeUp    key.Binding
	VolumeDown  key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "start"),
		),
		Stop: key.NewBinding(
			key.WithKeys(" ", "o"),
			key.WithHelp("space/o", "stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "reset"),
		),
		Trigger: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "trigger"),
		),
		Persistence: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "persistence"),
		),
		Spectrum: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fft"),
		),
		Listen: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
			key.WithDisabled(),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
			key.WithDisabled(),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
			key.WithDisabled(),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Reset},
		{k.Trigger, k.Persistence, k.Spectrum, k.Listen},
		{k.VolumeUp, k.VolumeDown, k.Help, k.Quit},
	}
}
