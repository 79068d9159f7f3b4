package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the key bindings of the browse screen
type keyMap struct {
	Search    key.Binding
	Blur      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	Sort      key.Binding
	Category  key.Binding
	Open      key.Binding
	Reload    key.Binding
	Export    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Blur:      key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "leave search")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		NextPage:  key.NewBinding(key.WithKeys("]", "pgdown", "n"), key.WithHelp("]/n", "next page")),
		PrevPage:  key.NewBinding(key.WithKeys("[", "pgup", "p"), key.WithHelp("[/p", "prev page")),
		FirstPage: key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first page")),
		LastPage:  key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last page")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Category:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Export:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextPage, k.PrevPage, k.Sort, k.Category, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage},
		{k.Search, k.Blur, k.Sort, k.Category},
		{k.Open, k.Reload, k.Export, k.Help, k.Quit},
	}
}
