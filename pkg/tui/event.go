// ABOUTME: Translate bridges a framed input.Frame into the InputEvent the runtime dispatches to components.
// ABOUTME: Keeps pkg/tui/key and pkg/tui/input as leaf packages with no dependency on each other or on tui.

package tui

import (
	"github.com/Gurpartap/tape-tui/pkg/tui/input"
	"github.com/Gurpartap/tape-tui/pkg/tui/key"
)

// EventKind tags what an InputEvent carries.
type EventKind int

const (
	EventKey EventKind = iota
	EventText
	EventPaste
	EventResize
)

// InputEvent is the unified event the runtime feeds to the focused component
// and to any input handlers above it. Exactly one of Key, Text, or the
// Cols/Rows pair is meaningful, selected by Kind.
type InputEvent struct {
	Kind EventKind
	Key  key.Key
	Text string
	Cols int
	Rows int
}

// NewResizeEvent builds the event the runtime emits on SIGWINCH.
func NewResizeEvent(cols, rows int) InputEvent {
	return InputEvent{Kind: EventResize, Cols: cols, Rows: rows}
}

// Translate converts a framed input.Frame into an InputEvent. kittyActive
// selects the key parser's precedence order, matching the terminal's
// negotiated protocol for the lifetime of the frame.
func Translate(frame input.Frame, kittyActive bool) InputEvent {
	if frame.Kind == input.FramePaste {
		return InputEvent{Kind: EventPaste, Text: frame.Data}
	}

	if runeCount(frame.Data) > 1 && frame.Data[0] != 0x1b {
		return InputEvent{Kind: EventText, Text: frame.Data}
	}

	return InputEvent{Kind: EventKey, Key: key.ParseKeyMode(frame.Data, kittyActive)}
}

// runeCount counts runes in s without allocating a []rune.
func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
