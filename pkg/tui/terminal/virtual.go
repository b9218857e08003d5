// ABOUTME: VirtualTerminal implements Terminal for testing without a real TTY.
// ABOUTME: Captures output in a buffer and lets tests drive input/resize/kitty state directly.

package terminal

import (
	"bytes"
	"fmt"
	"sync"
)

// VirtualTerminal is a fake Terminal for unit tests. It records written
// output, tracks start/stop transitions, and lets a test inject input via
// Feed and resize via SetSize rather than reading a real fd.
type VirtualTerminal struct {
	mu          sync.Mutex
	buf         bytes.Buffer
	cols        int
	rows        int
	running     bool
	kittyActive bool
	onInput     func(data []byte)
	onResize    func(cols, rows int)
	pending     [][]byte
	startCount  int
	stopCount   int
}

// NewVirtualTerminal returns a VirtualTerminal with the given dimensions.
func NewVirtualTerminal(cols, rows int) *VirtualTerminal {
	return &VirtualTerminal{cols: cols, rows: rows}
}

// Start records the callbacks and marks the terminal running.
func (v *VirtualTerminal) Start(onInput func(data []byte), onResize func(cols, rows int)) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.running = true
	v.startCount++
	v.onInput = onInput
	v.onResize = onResize
	return nil
}

// Stop marks the terminal stopped.
func (v *VirtualTerminal) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.running = false
	v.stopCount++
	return nil
}

// DrainInput dispatches the chunks Feed queued while no onInput callback was
// set, and clears that queue; with still no callback, the queued chunks are
// dropped. maxMs/idleMs are accepted for interface compatibility but unused;
// a fake terminal has nothing to wait on.
func (v *VirtualTerminal) DrainInput(_, _ int) {
	v.mu.Lock()
	pending := v.pending
	v.pending = nil
	fn := v.onInput
	v.mu.Unlock()

	if fn == nil {
		return
	}
	for _, chunk := range pending {
		fn(chunk)
	}
}

// Write appends data to the internal buffer.
func (v *VirtualTerminal) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n, err := v.buf.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to virtual buffer: %w", err)
	}
	return n, nil
}

// Columns returns the configured terminal width.
func (v *VirtualTerminal) Columns() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cols
}

// Rows returns the configured terminal height.
func (v *VirtualTerminal) Rows() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rows
}

// KittyProtocolActive reports the test-injected Kitty state.
func (v *VirtualTerminal) KittyProtocolActive() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.kittyActive
}

// SetKittyProtocolActive lets a test drive the Kitty negotiation outcome.
func (v *VirtualTerminal) SetKittyProtocolActive(active bool) {
	v.mu.Lock()
	v.kittyActive = active
	v.mu.Unlock()
}

// --- Test helpers (not part of Terminal interface) ---

// Output returns everything written so far.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.buf.String()
}

// Reset clears the output buffer.
func (v *VirtualTerminal) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.buf.Reset()
}

// IsRunning reports whether Start has been called more recently than Stop.
func (v *VirtualTerminal) IsRunning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.running
}

// StartCount returns how many times Start was called.
func (v *VirtualTerminal) StartCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.startCount
}

// StopCount returns how many times Stop was called.
func (v *VirtualTerminal) StopCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stopCount
}

// SetSize updates the terminal dimensions and, if a resize callback is
// registered, invokes it with the new size synchronously.
func (v *VirtualTerminal) SetSize(cols, rows int) {
	v.mu.Lock()
	v.cols, v.rows = cols, rows
	fn := v.onResize
	v.mu.Unlock()

	if fn != nil {
		fn(cols, rows)
	}
}

// Feed delivers data synchronously through onInput, as if it had just been
// read from the terminal. Used by tests exercising the runtime's input
// path without a real fd.
func (v *VirtualTerminal) Feed(data []byte) {
	v.mu.Lock()
	fn := v.onInput
	v.mu.Unlock()

	if fn != nil {
		fn(data)
		return
	}
	v.mu.Lock()
	v.pending = append(v.pending, data)
	v.mu.Unlock()
}
