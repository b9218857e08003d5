// ABOUTME: CrashCleanup emits the three best-effort teardown commands through a fresh OutputGate to the HookTerminal.
// ABOUTME: Watch installs a process-wide, refcounted signal hook; PanicHook/RecoverGoroutine are deferred recovers; both run the Default registry.

package crashsafe

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/Gurpartap/tape-tui/pkg/tui/output"
)

// CrashCleanup assembles the three crash-teardown commands (bracketed
// paste off, Kitty protocol off, cursor visible) through a fresh
// output.Gate and flushes them to a HookTerminal opened for this call.
// Raw-mode restoration is the terminal backend's own job (Terminal.Stop),
// since only it holds the saved termios state.
func CrashCleanup() {
	ht, err := OpenHookTerminal()
	if err != nil {
		return
	}
	defer ht.Close()

	g := output.New()
	g.Push(output.BracketedPasteDisable())
	g.Push(output.KittyDisable())
	g.Push(output.ShowCursor())
	_ = g.Flush(ht)
}

var (
	installMu    sync.Mutex
	installCount int
	sigCh        chan os.Signal
	sigStop      chan struct{}
)

// Watch installs the process-wide SIGINT/SIGTERM/SIGHUP crash-cleanup
// handler and a SIGWINCH forwarder that calls onResize. It installs no panic
// handling; panics are caught by deferring PanicHook or RecoverGoroutine.
// Reference-counted: the Nth call while a Watch is already installed just
// bumps the count; Uninstall decrements it and only tears down at 0.
// onResize may be nil.
func Watch(onResize func()) {
	installMu.Lock()
	defer installMu.Unlock()

	installCount++
	if installCount > 1 {
		return
	}

	sigCh = make(chan os.Signal, 8)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGWINCH)
	sigStop = make(chan struct{})

	go func() {
		for {
			select {
			case <-sigStop:
				return
			case sig := <-sigCh:
				if sig == syscall.SIGWINCH {
					if onResize != nil {
						onResize()
					}
					continue
				}
				Default.RunAll()
				CrashCleanup()
				signal.Stop(sigCh)
				// Re-raise so the default disposition (terminate) applies,
				// matching a process that never installed a handler.
				_ = syscall.Kill(os.Getpid(), sig.(syscall.Signal))
			}
		}
	}()
}

// Uninstall reverses one Watch call. The signal listener and forwarding
// goroutine are torn down once the refcount reaches zero.
func Uninstall() {
	installMu.Lock()
	defer installMu.Unlock()

	if installCount == 0 {
		return
	}
	installCount--
	if installCount > 0 {
		return
	}
	if sigStop != nil {
		close(sigStop)
		signal.Stop(sigCh)
		sigStop, sigCh = nil, nil
	}
}

// PanicHook should be deferred directly at the top of the goroutine that
// owns the terminal (typically main, wrapping runtime.Run) — recover only
// stops a panic when called directly by the deferred function itself, so
// callers must not wrap this in another function. On panic it runs every
// registered cleanup, emits the crash-teardown commands, prints the panic
// value and stack to stderr, then exits with status 1.
func PanicHook() {
	r := recover()
	if r == nil {
		return
	}
	HandlePanic(r)
	os.Exit(1)
}

// RecoverGoroutine should be deferred directly at the top of background
// goroutines that run while the terminal is started. Unlike PanicHook it
// does not call os.Exit, leaving the owning goroutine to decide how to
// shut down.
func RecoverGoroutine() {
	r := recover()
	if r == nil {
		return
	}
	HandlePanic(r)
}

// HandlePanic runs the shared crash path (registry cleanups, crash-safe
// teardown commands, stack report) for a panic value r already captured
// by the caller's own recover(). Exposed so wrappers like
// terminal.RestoreOnPanic can recover() themselves — recover only takes
// effect when called directly by the deferred function — and delegate the
// resulting value here instead of duplicating the crash path.
func HandlePanic(r any) {
	Default.RunAll()
	CrashCleanup()
	fmt.Fprintf(os.Stderr, "\npanic: %v\n\n%s\n", r, debug.Stack())
}
