// ABOUTME: Runtime drives the Init/Running/Stopped event loop: terminal I/O, differential rendering, surface compositing, and input arbitration.
// ABOUTME: Dispatch is the thread-safe entry point external goroutines use to request renders, mutate surfaces, or move focus.

package tui

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	internallog "github.com/Gurpartap/tape-tui/internal/log"
	"github.com/Gurpartap/tape-tui/pkg/tui/crashsafe"
	"github.com/Gurpartap/tape-tui/pkg/tui/input"
	"github.com/Gurpartap/tape-tui/pkg/tui/key"
	"github.com/Gurpartap/tape-tui/pkg/tui/output"
	"github.com/Gurpartap/tape-tui/pkg/tui/render"
	"github.com/Gurpartap/tape-tui/pkg/tui/surface"
	"github.com/Gurpartap/tape-tui/pkg/tui/terminal"
	"github.com/Gurpartap/tape-tui/pkg/tui/width"
)

// RuntimeState is the Runtime's lifecycle position.
type RuntimeState int

const (
	StateInit RuntimeState = iota
	StateRunning
	StateStopped
)

func (s RuntimeState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "init"
	}
}

// dispatchFunc is a Runtime mutation queued by Dispatch and applied on the
// runtime's own goroutine, so surface/focus/root mutations never race the
// render loop.
type dispatchFunc func(*Runtime)

// Runtime owns one terminal session: it renders the root Container plus
// any surfaces on top of it, arbitrates input between them, and tears
// itself down on panic or termination signal via crashsafe.
type Runtime struct {
	term terminal.Terminal
	sink Sink
	env  EnvConfig

	root       *Container
	compositor *surface.Compositor
	renderer   *render.Renderer
	gate       *output.Gate
	inputBuf   *input.Buffer

	mu    sync.Mutex
	state RuntimeState
	focus ComponentID

	dispatchCh chan dispatchFunc
	inputCh    chan []byte
	resizeCh   chan struct{}
	stopCh     chan struct{}
}

// NewRuntime constructs a Runtime bound to term. sink receives every
// diagnostic; pass nil to use a zerolog sink over internal/log's default
// logger. The PI_* environment is read once, here, via LoadEnvConfig.
func NewRuntime(term terminal.Terminal, sink Sink) *Runtime {
	if sink == nil {
		sink = NewZerologSink(internallog.Logger())
	}
	return &Runtime{
		term:       term,
		sink:       sink,
		env:        LoadEnvConfig(sink),
		root:       NewContainer(),
		compositor: surface.NewCompositor(),
		renderer:   render.New(),
		gate:       output.New(),
		inputBuf:   input.NewBuffer(0),
		dispatchCh: make(chan dispatchFunc, 64),
		inputCh:    make(chan []byte, 64),
		resizeCh:   make(chan struct{}, 4),
		stopCh:     make(chan struct{}),
	}
}

// State reports the Runtime's current lifecycle position.
func (r *Runtime) State() RuntimeState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Root returns the runtime's root Container, for adding always-visible
// content components.
func (r *Runtime) Root() *Container { return r.root }

// Dispatch queues fn to run on the runtime's own goroutine. Safe to call
// from any goroutine, including before Run starts (fn is applied once the
// loop begins) or after Stop (fn is dropped).
func (r *Runtime) Dispatch(fn func(*Runtime)) {
	select {
	case r.dispatchCh <- fn:
	case <-r.stopCh:
	}
}

// RequestRender asks for a re-render on the next loop iteration. Each call
// queues one no-op dispatch and the loop renders after every dispatch, so
// bursts are not coalesced; re-rendering unchanged content writes nothing.
func (r *Runtime) RequestRender() {
	r.Dispatch(func(*Runtime) {})
}

// FocusSet moves input focus to id. Components not implementing Focusable
// are still valid focus targets; they simply never learn about it.
func (r *Runtime) FocusSet(id ComponentID) {
	r.Dispatch(func(rt *Runtime) {
		rt.setFocus(id)
	})
}

func (r *Runtime) setFocus(id ComponentID) {
	r.mu.Lock()
	prev := r.focus
	r.focus = id
	r.mu.Unlock()
	if prev == id {
		return
	}
	if c, ok := r.root.Lookup(prev); ok {
		if f, ok := c.(Focusable); ok {
			f.SetFocused(false)
		}
	}
	if c, ok := r.root.Lookup(id); ok {
		if f, ok := c.(Focusable); ok {
			f.SetFocused(true)
		}
	}
}

// ShowSurface adds componentID as a new topmost surface and returns its
// ID. The surface must already be registered in the Runtime's root
// Container, since input arbitration and rendering look it up there by
// ComponentID.
func (r *Runtime) ShowSurface(componentID ComponentID, opts surface.SurfaceOptions) surface.ID {
	id := r.compositor.ShowWithPreFocus(uint64(componentID), opts, uint64(r.currentFocus()))
	r.RequestRender()
	return id
}

// HideSurface hides a surface without removing it from the stack.
func (r *Runtime) HideSurface(id surface.ID) {
	r.Dispatch(func(rt *Runtime) {
		rt.compositor.Hide(id)
	})
}

// CloseSurface removes a surface and restores focus to whatever component
// held it immediately before the surface was shown.
func (r *Runtime) CloseSurface(id surface.ID) {
	r.Dispatch(func(rt *Runtime) {
		preFocus, ok := rt.compositor.Close(id)
		if ok {
			rt.setFocus(ComponentID(preFocus))
		}
	})
}

// UpdateSurfaceOptions replaces a surface's options in place.
func (r *Runtime) UpdateSurfaceOptions(id surface.ID, opts surface.SurfaceOptions) {
	r.Dispatch(func(rt *Runtime) {
		rt.compositor.UpdateOptions(id, opts)
	})
}

func (r *Runtime) currentFocus() ComponentID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focus
}

// Run starts the terminal, installs crash-safe teardown hooks, and blocks
// processing input and dispatched mutations until ctx is done or Stop is
// called. It always leaves the terminal restored on return.
func (r *Runtime) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateInit {
		r.mu.Unlock()
		return nil
	}
	r.state = StateRunning
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.state = StateStopped
		r.mu.Unlock()
	}()

	// The terminal backend already reports SIGWINCH through its own
	// onResize callback below; crashsafe.Watch only needs to install the
	// termination-signal teardown path here. Panics are handled by the
	// deferred RecoverGoroutine.
	crashsafe.Watch(nil)
	defer crashsafe.Uninstall()

	handle := crashsafe.Register(func() { _ = r.term.Stop() })
	defer crashsafe.Unregister(handle)
	defer terminal.RecoverGoroutine(r.term)

	if err := r.term.Start(func(data []byte) {
		select {
		case r.inputCh <- data:
		case <-r.stopCh:
		}
	}, func(cols, rows int) {
		select {
		case r.resizeCh <- struct{}{}:
		default:
		}
	}); err != nil {
		return err
	}
	defer func() { _ = r.term.Stop() }()

	r.startupSequence()
	defer r.shutdownSequence()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return r.loop(gctx)
	})

	err := group.Wait()
	r.Stop()
	return err
}

// Stop requests the run loop to exit at its next iteration.
func (r *Runtime) Stop() {
	select {
	case <-r.stopCh:
	default:
		close(r.stopCh)
	}
}

func (r *Runtime) startupSequence() {
	r.gate.Push(output.BracketedPasteEnable())
	r.gate.Push(output.KittyQuery())
	if r.env.HardwareCursor {
		r.gate.Push(output.ShowCursor())
	} else {
		r.gate.Push(output.HideCursor())
	}
	if err := r.gate.Flush(r.term); err != nil {
		r.sink.Emit(Diagnostic{Code: "runtime.startup.flush_failed", Severity: SeverityError, Message: err.Error()})
	}
}

func (r *Runtime) shutdownSequence() {
	r.gate.Push(output.BracketedPasteDisable())
	r.gate.Push(output.KittyDisable())
	r.gate.Push(output.ShowCursor())
	_ = r.gate.Flush(r.term)
}

func (r *Runtime) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stopCh:
			return nil
		case fn := <-r.dispatchCh:
			fn(r)
			r.renderOnce()
		case data := <-r.inputCh:
			r.handleRawInput(data)
		case <-r.resizeCh:
			r.root.Invalidate()
			r.renderOnce()
		}
	}
}

func (r *Runtime) handleRawInput(data []byte) {
	for _, frame := range r.inputBuf.Feed(data) {
		if r.consumeKittyQueryResponse(frame.Data) {
			continue
		}
		r.dispatchEvent(Translate(frame, r.kittyKnown()))
	}
	for {
		timeout, ok := r.inputBuf.NextTimeout()
		if !ok || timeout > 0 {
			break
		}
		for _, frame := range r.inputBuf.FlushIdle() {
			if r.consumeKittyQueryResponse(frame.Data) {
				continue
			}
			r.dispatchEvent(Translate(frame, r.kittyKnown()))
		}
	}
	r.renderOnce()
}

// consumeKittyQueryResponse recognizes the "\x1b[?<flags>u" reply to the
// startup CSI ? u query and negotiates the keyboard protocol on, without
// forwarding the reply to any component as a key event.
func (r *Runtime) consumeKittyQueryResponse(data string) bool {
	if !strings.HasPrefix(data, "\x1b[?") || !strings.HasSuffix(data, "u") {
		return false
	}
	flags := data[3 : len(data)-1]
	if flags == "" {
		return false
	}
	for _, c := range flags {
		if c < '0' || c > '9' {
			return false
		}
	}
	r.term.SetKittyProtocolActive(true)
	r.gate.Push(output.KittyEnable())
	if err := r.gate.Flush(r.term); err != nil {
		r.sink.Emit(Diagnostic{Code: "runtime.kitty.enable_flush_failed", Severity: SeverityWarn, Message: err.Error()})
	}
	return true
}

func (r *Runtime) kittyKnown() bool {
	return r.term.KittyProtocolActive()
}

// dispatchEvent routes evt: the topmost visible capturing surface gets
// first refusal, then the focused root component. Capturing surfaces below
// the topmost one are not offered the event.
func (r *Runtime) dispatchEvent(evt InputEvent) {
	if evt.Kind == EventKey && evt.Key.Event == key.Release {
		if !r.focusWantsKeyRelease() {
			return
		}
	}

	cols, rows := r.term.Columns(), r.term.Rows()
	if id, ok := r.compositor.TopmostVisibleComponent(cols, rows, true); ok {
		if c, ok := r.root.Lookup(ComponentID(id)); ok {
			if h, ok := c.(InputHandler); ok && h.HandleEvent(&evt) {
				return
			}
		}
	}

	focus := r.currentFocus()
	if c, ok := r.root.Lookup(focus); ok {
		if h, ok := c.(InputHandler); ok {
			h.HandleEvent(&evt)
		}
	}
}

func (r *Runtime) focusWantsKeyRelease() bool {
	c, ok := r.root.Lookup(r.currentFocus())
	if !ok {
		return false
	}
	w, ok := c.(KeyReleaseWanter)
	return ok && w.WantsKeyRelease()
}

// renderOnce renders the root content plus every visible surface and
// flushes the resulting differential update through the output gate.
func (r *Runtime) renderOnce() {
	cols, rows := r.term.Columns(), r.term.Rows()
	if cols <= 0 || rows <= 0 {
		return
	}

	buf := AcquireBuffer()
	defer ReleaseBuffer(buf)
	r.root.Render(buf, cols)

	lines := append([]string(nil), buf.Lines...)
	cursorRow, cursorCol := extractCursorPosition(lines)

	rendered := r.renderSurfaces(cols, rows)
	if len(rendered) > 0 {
		lines = surface.CompositeSurfaces(lines, rendered, cols, rows, r.renderer.State().MaxLinesRendered, isImageLine)
	}

	var cursor *render.CursorPos
	if r.env.HardwareCursor && cursorRow >= 0 && cursorCol >= 0 {
		cursor = &render.CursorPos{Row: cursorRow, Col: cursorCol}
	}

	cmds := r.renderer.Render(render.Input{
		Lines:          lines,
		Width:          cols,
		Rows:           rows,
		Cursor:         cursor,
		IsImageLine:    func(i int) bool { return isImageLine(lines[i]) },
		StrictWidth:    true,
		ClearOnShrink:  r.env.ClearOnShrink,
		SurfacesActive: len(rendered) > 0,
	})

	r.gate.Extend(cmds)
	if err := r.gate.Flush(r.term); err != nil {
		r.sink.Emit(Diagnostic{Code: "runtime.render.flush_failed", Severity: SeverityWarn, Message: err.Error()})
	}
}

func (r *Runtime) renderSurfaces(cols, rows int) []surface.Rendered {
	entries := r.compositor.VisibleSnapshot(cols, rows)
	if len(entries) == 0 {
		return nil
	}
	out := make([]surface.Rendered, 0, len(entries))
	for _, e := range entries {
		c, ok := r.root.Lookup(ComponentID(e.ComponentID))
		if !ok {
			continue
		}
		buf := AcquireBuffer()
		layout := e.Options.WithLaneReservations(0, 0)
		c.Render(buf, cols)
		resolved := surface.ResolveLayout(&layout, buf.Len(), cols, rows)
		lines := append([]string(nil), buf.Lines...)
		ReleaseBuffer(buf)
		out = append(out, surface.Rendered{Lines: lines, Row: resolved.Row, Col: resolved.Col, Width: resolved.Width})
	}
	return out
}

// isImageLine reports whether line carries an inline image escape that
// must never be spliced or truncated mid-payload.
func isImageLine(line string) bool {
	return strings.Contains(line, "\x1b_G")
}

// extractCursorPosition removes every CursorMarker from lines and returns
// the (row, col) of the first marker on a non-image line, or (-1, -1) if
// there is none. A marker found on an image line is stripped but discarded
// rather than acted on: image payloads are opaque escape blobs, not text a
// cursor can sit inside.
func extractCursorPosition(lines []string) (row, col int) {
	row, col = -1, -1
	for i, line := range lines {
		idx := strings.Index(line, CursorMarker)
		if idx < 0 {
			continue
		}
		if row < 0 && !isImageLine(line) {
			row, col = i, width.VisibleWidth(line[:idx])
		}
		lines[i] = strings.ReplaceAll(line, CursorMarker, "")
	}
	return row, col
}
