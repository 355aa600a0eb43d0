package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tuneflow/internal/app"
	"github.com/desertthunder/tuneflow/internal/player"
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
	MsgKeywordSettled MsgKind = iota
	MsgSearchResolved
	MsgPreviewEnded
)

// keywordSettledMsg is the constructor for [MsgKeywordSettled]
func keywordSettledMsg(seq int) Msg {
	return Msg{kind: MsgKeywordSettled, data: seq}
}

// searchResolvedMsg is the constructor for [MsgSearchResolved]
func searchResolvedMsg(resp app.Response) Msg {
	return Msg{kind: MsgSearchResolved, data: resp}
}

// previewEndedMsg is the constructor for [MsgPreviewEnded]
func previewEndedMsg(p player.Playback) Msg {
	return Msg{kind: MsgPreviewEnded, data: p}
}
