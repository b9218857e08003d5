package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Gurpartap/tape-tui/pkg/tui/terminal"
)

type staticComponent struct {
	lines []string
}

func (s *staticComponent) Render(out *RenderBuffer, width int) { out.WriteLines(s.lines) }
func (s *staticComponent) Invalidate()                         {}

// waitFor polls cond until it returns true or the deadline passes, failing
// the test on timeout. Runtime mutations happen on its own goroutine via
// Dispatch, so tests can't just read state synchronously after a call.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

func startRuntime(t *testing.T, vt *terminal.VirtualTerminal) (*Runtime, context.CancelFunc) {
	t.Helper()
	rt := NewRuntime(vt, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = rt.Run(ctx)
		close(done)
	}()
	waitFor(t, func() bool { return rt.State() == StateRunning && vt.IsRunning() })
	t.Cleanup(func() {
		cancel()
		rt.Stop()
		<-done
	})
	return rt, cancel
}

func TestRuntime_RenderOnceWritesRootContent(t *testing.T) {
	vt := terminal.NewVirtualTerminal(40, 10)
	rt, _ := startRuntime(t, vt)

	rt.Root().Add(&staticComponent{lines: []string{"hello", "world"}})
	rt.RequestRender()

	waitFor(t, func() bool {
		return strings.Contains(vt.Output(), "hello") && strings.Contains(vt.Output(), "world")
	})
}

func TestRuntime_DifferentialRenderSkipsUnchangedLines(t *testing.T) {
	vt := terminal.NewVirtualTerminal(40, 10)
	rt, _ := startRuntime(t, vt)

	comp := &staticComponent{lines: []string{"alpha", "beta"}}
	rt.Root().Add(comp)
	rt.RequestRender()
	waitFor(t, func() bool { return strings.Contains(vt.Output(), "alpha") })

	firstLen := len(vt.Output())
	rt.RequestRender()
	// A second render of identical content (same lines, no cursor) changes
	// nothing the terminal doesn't already show, so it must write zero
	// further bytes rather than re-emit "alpha"/"beta" or cursor commands.
	time.Sleep(20 * time.Millisecond)
	if got := vt.Output()[firstLen:]; got != "" {
		t.Errorf("expected no output for an unchanged re-render, got %q", got)
	}
}

func TestRuntime_CursorMarkerIsStrippedFromOutput(t *testing.T) {
	vt := terminal.NewVirtualTerminal(40, 10)
	rt, _ := startRuntime(t, vt)

	rt.Root().Add(&staticComponent{lines: []string{"pi" + CursorMarker + "ck"}})
	rt.RequestRender()

	waitFor(t, func() bool { return strings.Contains(vt.Output(), "pick") })
	if strings.Contains(vt.Output(), CursorMarker) {
		t.Error("expected CursorMarker to be stripped from rendered output")
	}
}

func TestRuntime_ResizeTriggersReinvalidateAndRerender(t *testing.T) {
	vt := terminal.NewVirtualTerminal(20, 5)
	rt, _ := startRuntime(t, vt)

	rt.Root().Add(&staticComponent{lines: []string{"fixed"}})
	rt.RequestRender()
	waitFor(t, func() bool { return strings.Contains(vt.Output(), "fixed") })

	before := len(vt.Output())
	vt.SetSize(30, 8)
	waitFor(t, func() bool { return len(vt.Output()) > before })
}

func TestRuntime_FocusSetTogglesFocusable(t *testing.T) {
	vt := terminal.NewVirtualTerminal(40, 10)
	rt, _ := startRuntime(t, vt)

	comp := &focusableComponent{}
	id := rt.Root().Add(comp)

	rt.FocusSet(id)
	waitFor(t, func() bool { return comp.focused })

	other := &focusableComponent{}
	otherID := rt.Root().Add(other)
	rt.FocusSet(otherID)
	waitFor(t, func() bool { return other.focused && !comp.focused })
}

type focusableComponent struct {
	focused bool
}

func (f *focusableComponent) Render(out *RenderBuffer, width int) {}
func (f *focusableComponent) Invalidate()                         {}
func (f *focusableComponent) SetFocused(focused bool)             { f.focused = focused }
func (f *focusableComponent) IsFocused() bool                     { return f.focused }

func TestRuntime_StopRestoresTerminal(t *testing.T) {
	vt := terminal.NewVirtualTerminal(40, 10)
	rt := NewRuntime(vt, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = rt.Run(ctx)
		close(done)
	}()
	waitFor(t, func() bool { return vt.IsRunning() })

	rt.Stop()
	<-done

	if vt.IsRunning() {
		t.Error("expected terminal to be stopped once Run returns")
	}
	if rt.State() != StateStopped {
		t.Errorf("State() = %v, want StateStopped", rt.State())
	}
}

func TestExtractCursorPosition(t *testing.T) {
	lines := []string{"foo", "ba" + CursorMarker + "r", "baz"}
	row, col := extractCursorPosition(lines)
	if row != 1 || col != 2 {
		t.Errorf("extractCursorPosition = (%d, %d), want (1, 2)", row, col)
	}
	if lines[1] != "bar" {
		t.Errorf("expected marker stripped from line, got %q", lines[1])
	}
}

func TestExtractCursorPosition_NotFound(t *testing.T) {
	lines := []string{"foo", "bar"}
	row, col := extractCursorPosition(lines)
	if row != -1 || col != -1 {
		t.Errorf("extractCursorPosition = (%d, %d), want (-1, -1)", row, col)
	}
}

func TestRuntime_KittyQueryResponseIsConsumedNotDispatched(t *testing.T) {
	vt := terminal.NewVirtualTerminal(40, 10)
	rt, _ := startRuntime(t, vt)

	comp := &recordingInput{}
	id := rt.Root().Add(comp)
	rt.FocusSet(id)
	waitFor(t, func() bool { return rt.currentFocus() == id })

	vt.Feed([]byte("\x1b[?1u"))
	// Give the loop a moment to process; a kitty reply must never reach a
	// component as a key event.
	time.Sleep(20 * time.Millisecond)

	if len(comp.events) != 0 {
		t.Errorf("expected kitty query reply to be consumed, got events %v", comp.events)
	}
	if !vt.KittyProtocolActive() {
		t.Error("expected KittyProtocolActive to be set true after query reply")
	}
}

type recordingInput struct {
	events []EventKind
}

func (r *recordingInput) Render(out *RenderBuffer, width int) {}
func (r *recordingInput) Invalidate()                         {}
func (r *recordingInput) HandleEvent(evt *InputEvent) bool {
	r.events = append(r.events, evt.Kind)
	return true
}
