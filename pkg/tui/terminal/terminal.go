// ABOUTME: Defines the Terminal interface: a push-based backend contract of start/stop/drain/write/size/kitty.
// ABOUTME: Implementations own raw-mode entry/exit internally; callers never see term.State directly.

package terminal

// Terminal abstracts the platform terminal backend. Start puts the
// terminal into raw mode and begins delivering input and resize events
// through the supplied callbacks; Stop restores the terminal. Columns,
// Rows, and KittyProtocolActive reflect the most recently observed state
// and are safe to call from any goroutine.
type Terminal interface {
	// Start enters raw mode and begins an internal read loop that invokes
	// onInput for every chunk of bytes read from the terminal and onResize
	// whenever the terminal's dimensions change. Either callback may be nil.
	Start(onInput func(data []byte), onResize func(cols, rows int)) error

	// Stop restores the terminal to its pre-Start state and stops input
	// dispatch. It does not wait for the internal read loop: a read already
	// blocked on the terminal returns on its own later. Safe to call at most
	// once per Start.
	Stop() error

	// DrainInput pumps any input bytes already read but not yet dispatched
	// through onInput, for up to maxMs total or until idleMs elapses with
	// nothing new arriving, whichever comes first. Used during shutdown to
	// flush input the kernel delivered between the decision to stop and
	// Stop() actually returning.
	DrainInput(maxMs, idleMs int)

	// Write sends bytes to the terminal.
	Write(p []byte) (n int, err error)

	// Columns and Rows report the terminal's current dimensions.
	Columns() int
	Rows() int

	// KittyProtocolActive reports whether the Kitty keyboard protocol has
	// been negotiated for this session (set via SetKittyProtocolActive
	// once the runtime receives a query response).
	KittyProtocolActive() bool
	SetKittyProtocolActive(active bool)
}
