package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tevify/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPageLoaded MsgKind = iota
	MsgSearchReady
	MsgPlayerChanged
	MsgLibraryChanged
	MsgTick
	MsgBrowserOpened
)

type pageLoaded struct {
	token tasks.Token
	page  page
	err   error
}

type searchReady struct {
	query string
}

// pageLoadedMsg is the constructor for [MsgPageLoaded]
func pageLoadedMsg(token tasks.Token, p page, err error) Msg {
	return Msg{kind: MsgPageLoaded, data: pageLoaded{token: token, page: p, err: err}}
}

// searchReadyMsg is the constructor for [MsgSearchReady]
func searchReadyMsg(query string) Msg {
	return Msg{kind: MsgSearchReady, data: searchReady{query: query}}
}

// playerChangedMsg is the constructor for [MsgPlayerChanged]
func playerChangedMsg() Msg {
	return Msg{kind: MsgPlayerChanged}
}

// libraryChangedMsg is the constructor for [MsgLibraryChanged]
func libraryChangedMsg() Msg {
	return Msg{kind: MsgLibraryChanged}
}

// tickMsg is the constructor for [MsgTick]
func tickMsg() Msg {
	return Msg{kind: MsgTick}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}
