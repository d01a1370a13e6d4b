package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	First    key.Binding
	Last     key.Binding
	Section  key.Binding
	Back     key.Binding
	Forward  key.Binding
	TOC      key.Binding
	Search   key.Binding
	Goto     key.Binding
	Help     key.Binding
	Theme    key.Binding
	Bigger   key.Binding
	Smaller  key.Binding
	Close    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Interval key.Binding
	Kind     key.Binding
	Edit     key.Binding
	Switch   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", " "),
			key.WithHelp("→/l/space", "next slide"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "backspace"),
			key.WithHelp("←/h/bksp", "previous slide"),
		),
		First: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first slide"),
		),
		Last: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last slide"),
		),
		Section: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7"),
			key.WithHelp("1-7", "jump to section"),
		),
		Back: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "history back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "history forward"),
		),
		TOC: key.NewBinding(
			key.WithKeys("t", "T"),
			key.WithHelp("t", "table of contents"),
		),
		Search: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "search"),
		),
		Goto: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "go to slide"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Theme: key.NewBinding(
			key.WithKeys("d", "D"),
			key.WithHelp("d", "dark/light theme"),
		),
		Bigger: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "larger text"),
		),
		Smaller: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "smaller text"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Interval: key.NewBinding(
			key.WithKeys(",", "."),
			key.WithHelp(",/.", "grade interval -/+"),
		),
		Kind: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "percentage/absolute"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit definitions"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next definition"),
		),
	}
}

// ShortHelp is the footer line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.TOC, k.Search, k.Goto, k.Help, k.Quit}
}

// FullHelp is the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.First, k.Last, k.Section},
		{k.Back, k.Forward, k.Goto, k.TOC, k.Search},
		{k.Help, k.Theme, k.Bigger, k.Smaller, k.Close, k.Quit},
		{k.Interval, k.Kind, k.Edit, k.Switch},
	}
}
