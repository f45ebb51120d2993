package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	search  key.Binding
	home    key.Binding
	genres  key.Binding
	lists   key.Binding
	library key.Binding
	toggle  key.Binding
	next    key.Binding
	prev    key.Binding
	forward key.Binding
	rewind  key.Binding
	volUp   key.Binding
	volDown key.Binding
	mute    key.Binding
	like    key.Binding
	save    key.Binding
	follow  key.Binding
	playAll key.Binding
	shuffle key.Binding
	open    key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play/open")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		home:    key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "home")),
		genres:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genres")),
		lists:   key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "playlists")),
		library: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "library")),
		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "previous")),
		forward: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "+10s")),
		rewind:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "-10s")),
		volUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		volDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		mute:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		like:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "like")),
		save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save album")),
		follow:  key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "follow artist")),
		playAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "play all")),
		shuffle: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "shuffle")),
		open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.toggle, k.search, k.back, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.home, k.genres, k.lists, k.library},
		{k.toggle, k.next, k.prev, k.forward, k.rewind},
		{k.volUp, k.volDown, k.mute, k.playAll, k.shuffle},
		{k.like, k.save, k.follow, k.open, k.quit},
	}
}
