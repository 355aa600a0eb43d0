package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	next   key.Binding
	prev   key.Binding
	search key.Binding
	add    key.Binding
	play   key.Binding
	remove key.Binding
	media  key.Binding
	sort   key.Binding
	theme  key.Binding
	quit   key.Binding
	abort  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		prev:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev panel")),
		search: key.NewBinding(key.WithKeys("esc", "/"), key.WithHelp("/", "search")),
		add:    key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter", "add")),
		play:   key.NewBinding(key.WithKeys(" ", "space", "p"), key.WithHelp("space", "play/pause")),
		remove: key.NewBinding(key.WithKeys("d", "x", "backspace"), key.WithHelp("d", "remove")),
		media:  key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "media")),
		sort:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "sort")),
		theme:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		abort:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.abort}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.next, k.prev},
		{k.add, k.play, k.remove},
		{k.media, k.sort, k.theme, k.quit},
	}
}
