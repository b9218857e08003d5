// ABOUTME: RestoreOnPanic/RecoverGoroutine are terminal-aware deferred recovers around crashsafe.HandlePanic.
// ABOUTME: They register t.Stop with the crashsafe registry so a crash unwinds raw mode even if Stop was never reached.

package terminal

import (
	"os"

	"github.com/Gurpartap/tape-tui/pkg/tui/crashsafe"
)

// RestoreOnPanic should be deferred directly at the top of main (or any
// goroutine that owns t). It registers t.Stop with the crashsafe registry
// so a crash always restores raw mode, then hands the recovered value to
// crashsafe.HandlePanic for the shared cleanup/report behavior and exits.
func RestoreOnPanic(t Terminal) {
	h := crashsafe.Register(func() { _ = t.Stop() })
	defer crashsafe.Unregister(h)

	r := recover()
	if r == nil {
		return
	}
	crashsafe.HandlePanic(r)
	os.Exit(1)
}

// RecoverGoroutine should be deferred directly at the top of background
// goroutines that run while t is started. Unlike RestoreOnPanic it does
// not exit the process, matching crashsafe.RecoverGoroutine's semantics.
func RecoverGoroutine(t Terminal) {
	h := crashsafe.Register(func() { _ = t.Stop() })
	defer crashsafe.Unregister(h)

	r := recover()
	if r == nil {
		return
	}
	crashsafe.HandlePanic(r)
}
