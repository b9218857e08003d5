// ABOUTME: ProcessTerminal implements Terminal using os.Stdin/os.Stdout and golang.org/x/term.
// ABOUTME: Owns a background read loop and delegates platform-specific resize signaling to startResizeListener.

package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/term"
)

// ProcessTerminal is a real terminal backed by os.Stdin/os.Stdout and x/term.
type ProcessTerminal struct {
	mu       sync.Mutex
	oldState *term.State
	resizeFn func(cols, rows int)
	onInput  func(data []byte)

	cols, rows int

	kittyActive atomic.Bool
	readCh      chan []byte
	stopCh      chan struct{}
	readDone    chan struct{}
}

// NewProcessTerminal returns a ProcessTerminal ready for Start.
func NewProcessTerminal() *ProcessTerminal {
	return &ProcessTerminal{}
}

// Start enters raw mode, records the current size, and launches the
// background goroutines that feed onInput and onResize.
func (t *ProcessTerminal) Start(onInput func(data []byte), onResize func(cols, rows int)) error {
	state, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}

	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		_ = term.Restore(int(os.Stdin.Fd()), state)
		return fmt.Errorf("getting terminal size: %w", err)
	}

	t.mu.Lock()
	t.oldState = state
	t.cols, t.rows = w, h
	t.onInput = onInput
	t.resizeFn = onResize
	t.readCh = make(chan []byte, 64)
	t.stopCh = make(chan struct{})
	t.readDone = make(chan struct{})
	t.mu.Unlock()

	go t.readLoop()
	go t.dispatchLoop()
	t.startResizeListener()
	return nil
}

// readLoop blocks on os.Stdin.Read and pushes each chunk onto readCh.
// os.Stdin.Read cannot be interrupted portably; it is left running until
// the process exits or the fd is closed out from under it by the OS.
func (t *ProcessTerminal) readLoop() {
	defer close(t.readDone)
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case t.readCh <- chunk:
			case <-t.stopCh:
				return
			}
		}
		if err != nil {
			if err == io.EOF {
				return
			}
			return
		}
		select {
		case <-t.stopCh:
			return
		default:
		}
	}
}

func (t *ProcessTerminal) dispatchLoop() {
	for {
		select {
		case chunk := <-t.readCh:
			t.mu.Lock()
			fn := t.onInput
			t.mu.Unlock()
			if fn != nil {
				fn(chunk)
			}
		case <-t.stopCh:
			return
		}
	}
}

// Stop restores the terminal's prior mode. The read goroutine is left to
// exit on its own when the next Read returns (typically at process exit);
// the dispatch goroutine exits immediately since it also watches stopCh.
func (t *ProcessTerminal) Stop() error {
	t.mu.Lock()
	stopCh := t.stopCh
	old := t.oldState
	t.oldState = nil
	t.mu.Unlock()

	if stopCh != nil {
		select {
		case <-stopCh:
		default:
			close(stopCh)
		}
	}

	if old == nil {
		return nil
	}
	if err := term.Restore(int(os.Stdin.Fd()), old); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	return nil
}

// DrainInput pumps whatever is sitting in readCh, for up to maxMs total or
// until idleMs passes with nothing new, whichever is shorter.
func (t *ProcessTerminal) DrainInput(maxMs, idleMs int) {
	t.mu.Lock()
	readCh := t.readCh
	fn := t.onInput
	t.mu.Unlock()
	if readCh == nil {
		return
	}

	deadline := time.Now().Add(time.Duration(maxMs) * time.Millisecond)
	idle := time.Duration(idleMs) * time.Millisecond
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		wait := idle
		if wait > remaining {
			wait = remaining
		}
		select {
		case chunk := <-readCh:
			if fn != nil {
				fn(chunk)
			}
		case <-time.After(wait):
			return
		}
	}
}

// Write sends bytes to os.Stdout.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := os.Stdout.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to stdout: %w", err)
	}
	return n, nil
}

// Columns returns the most recently observed terminal width.
func (t *ProcessTerminal) Columns() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cols
}

// Rows returns the most recently observed terminal height.
func (t *ProcessTerminal) Rows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows
}

// KittyProtocolActive reports whether the Kitty keyboard protocol has been
// negotiated for this session.
func (t *ProcessTerminal) KittyProtocolActive() bool {
	return t.kittyActive.Load()
}

// SetKittyProtocolActive records the outcome of the Kitty query/response
// handshake the runtime performs during startup.
func (t *ProcessTerminal) SetKittyProtocolActive(active bool) {
	t.kittyActive.Store(active)
}

// setSize updates the cached dimensions and fires the resize callback.
// Called by startResizeListener on SIGWINCH.
func (t *ProcessTerminal) setSize(w, h int) {
	t.mu.Lock()
	t.cols, t.rows = w, h
	fn := t.resizeFn
	t.mu.Unlock()
	if fn != nil {
		fn(w, h)
	}
}
