// ABOUTME: Core TUI interfaces: Component, InputHandler, Focusable
// ABOUTME: Defines the contract for all renderable UI elements

package tui

// CursorMarker is a zero-width marker that components embed in render output
// to indicate cursor position. The TUI engine strips it and positions the
// real terminal cursor at that location.
// Matches Claude Code's cursor marker format.
const CursorMarker = "\x1b_pi:c\x07"

// CursorMarkerAPC is the ANSI APC escape sequence for cursor positioning
// used for precise cursor placement in compatible terminals.
const CursorMarkerAPC = "\x1b_]pi:c\x07"

// CursorPos represents the cursor position in the terminal
type CursorPos struct {
	Row int // 0-indexed row
	Col int // 0-indexed column
}

// CursorVisible always returns true; it does not consult the renderer's or
// the terminal's cursor state.
func CursorVisible() bool {
	return true
}

// Component is the base interface for all TUI elements.
// Components render into a pooled RenderBuffer and must not exceed the given width.
type Component interface {
	// Render writes the component's visual lines into out.
	// Lines must not exceed width visible columns.
	Render(out *RenderBuffer, width int)

	// Invalidate clears any cached render state, forcing a full re-render
	// on the next Render call.
	Invalidate()
}

// InputHandler is implemented by components that process runtime input
// events: key presses, pasted text, and resize notifications. HandleEvent
// returns true if the component consumed the event, stopping it from
// falling through to a lower surface or the root tree's input handler.
type InputHandler interface {
	HandleEvent(evt *InputEvent) bool
}

// Focusable is implemented by components that participate in focus
// management: the runtime routes input to the one focused component that
// no visible capturing surface has claimed.
type Focusable interface {
	SetFocused(focused bool)
	IsFocused() bool
}

// CursorReporter is implemented by a focused component that wants the
// hardware cursor positioned somewhere other than where CursorMarker
// landed in its rendered output. The Runtime does not call CursorPos; the
// hardware cursor is placed only from CursorMarker.
type CursorReporter interface {
	CursorPos() (pos CursorPos, ok bool)
}

// KeyReleaseWanter is implemented by a component that needs Kitty protocol
// key-release events forwarded to it; by default the runtime filters them.
type KeyReleaseWanter interface {
	WantsKeyRelease() bool
}
