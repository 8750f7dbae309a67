package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Search  key.Binding
	Enter   key.Binding
	Back    key.Binding
	Home    key.Binding
	NextCat key.Binding
	PrevCat key.Binding
	Reset   key.Binding
	Open    key.Binding
	Copy    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
	Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Home:    key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "home")),
	NextCat: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
	PrevCat: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev category")),
	Reset:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
	Open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open player")),
	Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp returns short help key bindings (for help.Model)
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Search, k.NextCat, k.Enter, k.Back, k.Help, k.Quit}
}

// FullHelp returns full help key bindings
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Search, k.Enter, k.Back},
		{k.NextCat, k.PrevCat, k.Reset, k.Home},
		{k.Open, k.Copy},
		{k.Help, k.Quit},
	}
}

// viewerKeys is the help shown while a game is open.
type viewerKeys struct{ keyMap }

func (k viewerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Open, k.Copy, k.Home, k.Quit}
}

func (k viewerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Back, k.Home},
		{k.Open, k.Copy},
		{k.Help, k.Quit},
	}
}
