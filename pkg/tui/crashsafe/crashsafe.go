// ABOUTME: Registry is a lock-free cleanup list: any goroutine may Register a teardown func,
// ABOUTME: and RunAll executes every not-yet-run entry exactly once, tolerating panics inside them.

package crashsafe

import (
	"sync/atomic"
)

// CleanupFunc restores some piece of terminal state (raw mode, cursor
// visibility, alternate screen). Cleanups must be safe to call from a
// signal handler or a panicking goroutine: no allocation-heavy work, no
// blocking I/O beyond a best-effort write.
type CleanupFunc func()

// node is a single lock-free-list entry. ran guards against a cleanup
// running twice when both a panic and a signal race to call RunAll.
type node struct {
	fn   CleanupFunc
	next atomic.Pointer[node]
	ran  atomic.Bool
}

// Registry is a process-wide, lock-free, append-only list of cleanups.
// Entries are never physically unlinked (removal would require a CAS loop
// vulnerable to lost updates under concurrent Register); Unregister instead
// tombstones the node so RunAll skips it.
type Registry struct {
	head atomic.Pointer[node]
}

// NewRegistry returns an empty Registry. Most callers use the process-wide
// Default registry instead of constructing their own.
func NewRegistry() *Registry {
	return &Registry{}
}

// Handle identifies a registered cleanup so it can be unregistered once
// its owner tears down normally (i.e. no crash occurred).
type Handle struct {
	n *node
}

// Register adds fn to the registry and returns a Handle for Unregister.
func (r *Registry) Register(fn CleanupFunc) Handle {
	n := &node{fn: fn}
	for {
		old := r.head.Load()
		n.next.Store(old)
		if r.head.CompareAndSwap(old, n) {
			return Handle{n: n}
		}
	}
}

// Unregister marks h's cleanup as already handled, so a later RunAll skips
// it. Call this once the owning component tears down through its normal
// path, so a later crash doesn't run a cleanup against freed state.
func (r *Registry) Unregister(h Handle) {
	if h.n != nil {
		h.n.ran.Store(true)
	}
}

// RunAll executes every registered cleanup that has not already run, in
// most-recently-registered-first order (LIFO, matching typical teardown
// nesting). A panic inside one cleanup is recovered so it cannot prevent
// the rest from running.
func (r *Registry) RunAll() {
	for n := r.head.Load(); n != nil; n = n.next.Load() {
		if n.ran.CompareAndSwap(false, true) {
			runCleanup(n.fn)
		}
	}
}

func runCleanup(fn CleanupFunc) {
	defer func() { _ = recover() }()
	fn()
}

// Default is the process-wide registry PanicHook and the signal handler
// installed by Watch both run against.
var Default = NewRegistry()

// Register adds fn to the Default registry.
func Register(fn CleanupFunc) Handle { return Default.Register(fn) }

// Unregister removes h from the Default registry's active set.
func Unregister(h Handle) { Default.Unregister(h) }
