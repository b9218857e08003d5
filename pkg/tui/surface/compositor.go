// ABOUTME: Runtime surface stack: z-ordered entries, lane reservations, input arbitration.
// ABOUTME: Entry order is z-order (last is topmost); each method mutates the stack atomically under Compositor.mu.

package surface

import "sync"

// ID opaquely identifies a surface owned by a single Compositor.
type ID uint64

// Kind classifies a surface for lane-default purposes: which anchor and
// row it falls back to when the caller hasn't set one explicitly.
type Kind int

const (
	KindModal Kind = iota
	KindDrawer
	KindCorner
	KindToast
	KindAttachmentRow
)

// InputPolicy controls whether a visible surface intercepts input ahead
// of the root component tree.
type InputPolicy int

const (
	// InputCapture routes input to this surface's component before root.
	InputCapture InputPolicy = iota
	// InputPassthrough is visual-only; input falls through to root/focus.
	InputPassthrough
)

// SurfaceOptions composes layout geometry with surface-only semantics:
// which lane it defaults into and whether it captures input.
type SurfaceOptions struct {
	Layout      Options
	Kind        Kind
	InputPolicy InputPolicy
}

// IsVisible evaluates the embedded layout's visibility policy.
func (o SurfaceOptions) IsVisible(columns, rows int) bool {
	return o.Layout.IsVisible(columns, rows)
}

// WithLaneReservations returns layout Options adjusted for compositor lane
// reservations (space consumed by other always-on lanes, e.g. a status
// bar) and for this surface's Kind default anchor/row, without mutating o.
// Reservations are added to whatever margin is already set.
func (o SurfaceOptions) WithLaneReservations(reservedTop, reservedBottom int) Options {
	layout := o.Layout

	if reservedTop > 0 || reservedBottom > 0 {
		var margin Margin
		if layout.Margin != nil {
			margin = *layout.Margin
		}
		if reservedTop > 0 {
			top := margin.top() + reservedTop
			margin.Top = &top
		}
		if reservedBottom > 0 {
			bottom := margin.bottom() + reservedBottom
			margin.Bottom = &bottom
		}
		layout.Margin = &margin
	}

	anchor := func(a Anchor) { layout.Anchor = &a }
	row := func(v SizeValue) { layout.Row = &v }

	switch o.Kind {
	case KindModal:
		// no defaults; centered unless the caller overrides anchor/row/col.
	case KindDrawer:
		if layout.Anchor == nil && layout.Row == nil {
			anchor(AnchorBottomCenter)
		}
	case KindCorner:
		if layout.Anchor == nil && layout.Row == nil && layout.Col == nil {
			anchor(AnchorBottomRight)
		}
	case KindToast:
		if layout.Row == nil {
			row(Absolute(0))
		}
		if layout.Anchor == nil && layout.Col == nil {
			anchor(AnchorTopRight)
		}
	case KindAttachmentRow:
		if layout.Anchor == nil && layout.Row == nil {
			anchor(AnchorBottomLeft)
		}
	}

	return layout
}

// Entry is a surface owned by a Compositor.
type Entry struct {
	ID          ID
	ComponentID uint64
	Options     SurfaceOptions
	PreFocus    uint64
	HasPreFocus bool
	Hidden      bool
}

func (e Entry) inputPolicy() InputPolicy {
	return e.Options.InputPolicy
}

func (e Entry) isVisible(columns, rows int) bool {
	if e.Hidden {
		return false
	}
	return e.Options.IsVisible(columns, rows)
}

// RenderEntry is a render-time snapshot of a visible surface.
type RenderEntry struct {
	ComponentID uint64
	Options     SurfaceOptions
}

// Compositor is the runtime-owned, z-ordered surface stack. Index order is
// z-order: index 0 is bottommost, the last entry is topmost. A Compositor
// is safe for concurrent use.
type Compositor struct {
	mu      sync.Mutex
	nextID  uint64
	entries []Entry
}

// NewCompositor returns an empty Compositor.
func NewCompositor() *Compositor {
	return &Compositor{}
}

// Show pushes a new surface onto the top of the stack and returns its ID.
func (c *Compositor) Show(componentID uint64, opts SurfaceOptions) ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := ID(c.nextID)
	c.entries = append(c.entries, Entry{ID: id, ComponentID: componentID, Options: opts})
	return id
}

// ShowWithPreFocus is Show, additionally recording the component that held
// focus immediately before this surface was shown, so Close can restore it.
func (c *Compositor) ShowWithPreFocus(componentID uint64, opts SurfaceOptions, preFocus uint64) ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := ID(c.nextID)
	c.entries = append(c.entries, Entry{ID: id, ComponentID: componentID, Options: opts, PreFocus: preFocus, HasPreFocus: true})
	return id
}

// Close removes a surface from the stack and reports the component that
// should regain focus, if one was recorded at Show time.
func (c *Compositor) Close(id ID) (preFocus uint64, hasPreFocus bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return 0, false
	}
	entry := c.entries[idx]
	c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
	return entry.PreFocus, entry.HasPreFocus
}

// Hide marks a surface hidden without removing it from the stack.
func (c *Compositor) Hide(id ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(id); idx >= 0 {
		c.entries[idx].Hidden = true
	}
}

// Unhide clears a surface's hidden flag.
func (c *Compositor) Unhide(id ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(id); idx >= 0 {
		c.entries[idx].Hidden = false
	}
}

// UpdateOptions replaces a surface's options in place, preserving its
// z-order position.
func (c *Compositor) UpdateOptions(id ID, opts SurfaceOptions) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}
	c.entries[idx].Options = opts
	return true
}

// BringToFront moves a surface to the top of the z-order.
func (c *Compositor) BringToFront(id ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx < 0 || idx == len(c.entries)-1 {
		return idx >= 0
	}
	entry := c.entries[idx]
	c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
	c.entries = append(c.entries, entry)
	return true
}

// SendToBack moves a surface to the bottom of the z-order.
func (c *Compositor) SendToBack(id ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.indexOf(id)
	if idx <= 0 {
		return idx == 0
	}
	entry := c.entries[idx]
	c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
	c.entries = append([]Entry{entry}, c.entries...)
	return true
}

// Contains reports whether id is currently on the stack.
func (c *Compositor) Contains(id ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(id) >= 0
}

// HasVisible reports whether any surface is currently visible at the
// given terminal size.
func (c *Compositor) HasVisible(columns, rows int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.isVisible(columns, rows) {
			return true
		}
	}
	return false
}

// TopmostVisibleComponent returns the component belonging to the topmost
// visible surface, searching from the top of the stack down. When
// captureOnly is true, surfaces with InputPassthrough are skipped, letting
// input fall through to a lower capturing surface or the root tree.
func (c *Compositor) TopmostVisibleComponent(columns, rows int, captureOnly bool) (componentID uint64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.entries) - 1; i >= 0; i-- {
		e := c.entries[i]
		if !e.isVisible(columns, rows) {
			continue
		}
		if captureOnly && e.inputPolicy() != InputCapture {
			continue
		}
		return e.ComponentID, true
	}
	return 0, false
}

// VisibleSnapshot returns render-time entries for every currently visible
// surface, bottom-to-top, for the compositor's render pass to walk in
// z-order.
func (c *Compositor) VisibleSnapshot(columns, rows int) []RenderEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]RenderEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if e.isVisible(columns, rows) {
			out = append(out, RenderEntry{ComponentID: e.ComponentID, Options: e.Options})
		}
	}
	return out
}

// Len reports how many surfaces are currently on the stack, visible or not.
func (c *Compositor) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Compositor) indexOf(id ID) int {
	for i, e := range c.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
