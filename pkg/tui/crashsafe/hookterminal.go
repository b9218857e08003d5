// ABOUTME: HookTerminal is a crash-only /dev/tty writer: best-effort, never blocks, never panics.
// ABOUTME: Opened with O_WRONLY|O_NONBLOCK|O_NOCTTY|O_CLOEXEC so it never becomes the process's controlling tty.

package crashsafe

import (
	"golang.org/x/sys/unix"
)

// HookTerminal writes crash-teardown sequences directly to /dev/tty,
// bypassing whatever stdout redirection or buffering the process has in
// place. CrashCleanup opens a fresh one for each call and closes it right
// after flushing.
type HookTerminal struct {
	fd int
}

// OpenHookTerminal opens /dev/tty for crash-only writes.
func OpenHookTerminal() (*HookTerminal, error) {
	fd, err := unix.Open("/dev/tty", unix.O_WRONLY|unix.O_NONBLOCK|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &HookTerminal{fd: fd}, nil
}

// Write is best-effort: EINTR is retried, EAGAIN/EWOULDBLOCK short-return
// rather than block, and it never panics regardless of the underlying fd's
// state (a HookTerminal may be written to after its process has already
// begun dying).
func (h *HookTerminal) Write(p []byte) (int, error) {
	if h == nil || h.fd < 0 {
		return 0, nil
	}
	for {
		n, err := unix.Write(h.fd, p)
		if err == nil {
			return n, nil
		}
		if err == unix.EINTR {
			continue
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return n, nil
		}
		return n, err
	}
}

// Close releases the underlying fd.
func (h *HookTerminal) Close() error {
	if h == nil || h.fd < 0 {
		return nil
	}
	fd := h.fd
	h.fd = -1
	return unix.Close(fd)
}
