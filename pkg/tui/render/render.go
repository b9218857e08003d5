// ABOUTME: Renderer turns a fresh frame of lines into the minimal output.Cmd sequence that reaches that state.
// ABOUTME: Tracks previous_lines/previous_width/hardware_cursor_row/previous_viewport_top across calls for relative diffing.

package render

import (
	"strings"

	"github.com/Gurpartap/tape-tui/pkg/tui/output"
	"github.com/Gurpartap/tape-tui/pkg/tui/width"
)

// CursorPos is the target cursor position after a render, in the new
// frame's coordinate space: Row is a line index, Col a zero-based column.
type CursorPos struct {
	Row int
	Col int
}

// State is the renderer's retained state, mutated only by Render.
type State struct {
	PreviousLines       []string
	PreviousWidth       int
	MaxLinesRendered    int
	CursorRow           int // logical end-of-content row of the last frame
	HardwareCursorRow   int // physical terminal row the cursor currently sits on
	PreviousViewportTop int
	CursorShown         bool // whether the last Render call left the hardware cursor visible
	LastCursorRow       int  // logical row of the last cursor placement, valid when CursorShown
	LastCursorCol       int  // column of the last cursor placement, valid when CursorShown
	firstRender         bool
	forceFullRedrawNext bool
}

// NewState returns a State ready for a renderer's first call.
func NewState() State {
	return State{firstRender: true}
}

// RequestFullRedrawNext forces the next Render call to take the full-clear
// path regardless of width/shrink detection. Used when a caller knows it
// corrupted the terminal's notion of previous_lines (e.g. after writing
// directly to the escape hatch in spec.md §6).
func (s *State) RequestFullRedrawNext() {
	s.forceFullRedrawNext = true
}

// Input is one frame to render.
type Input struct {
	Lines         []string
	Width         int
	Rows          int
	Cursor        *CursorPos
	IsImageLine   func(i int) bool
	StrictWidth   bool
	ClearOnShrink bool
	SurfacesActive bool
}

// Renderer is a stateful differential renderer: each Render call advances
// State from whatever the terminal currently shows to the new frame.
type Renderer struct {
	state State
}

// New returns a Renderer starting from a first-render state.
func New() *Renderer {
	return &Renderer{state: NewState()}
}

// State returns the renderer's current retained state, for inspection or
// for constructing a Renderer resuming from a saved State.
func (r *Renderer) State() State { return r.state }

// Resume returns a Renderer continuing from a previously saved State.
func Resume(s State) *Renderer { return &Renderer{state: s} }

// Render computes the Cmd sequence to move the terminal from the previous
// frame to in.Lines, wrapped in the synchronized-update envelope.
func (r *Renderer) Render(in Input) []output.Cmd {
	isImage := in.IsImageLine
	if isImage == nil {
		isImage = func(int) bool { return false }
	}
	lines := normalize(in.Lines, isImage)

	var cmds []output.Cmd
	noChange := false
	switch {
	case r.state.firstRender:
		cmds = r.firstRenderCmds(lines)
	case r.state.forceFullRedrawNext, r.state.PreviousWidth != 0 && r.state.PreviousWidth != in.Width:
		r.state.forceFullRedrawNext = false
		cmds = r.fullClearCmds(lines)
	case in.ClearOnShrink && !in.SurfacesActive && len(lines) < len(r.state.PreviousLines):
		cmds = r.fullClearCmds(lines)
	default:
		cmds = r.diffCmds(lines, in.Width, in.StrictWidth, isImage)
		noChange = cmds == nil
	}

	r.state.PreviousWidth = in.Width
	r.state.PreviousLines = append(r.state.PreviousLines[:0:0], lines...)
	if len(lines) > r.state.MaxLinesRendered {
		r.state.MaxLinesRendered = len(lines)
	}

	if cursorCmds := r.cursorCmds(in.Cursor, in.Width, noChange); cursorCmds != nil {
		cmds = append(cmds, cursorCmds...)
	}

	return wrapSynchronized(cmds)
}

// cursorCmds returns the commands needed to reach the cursor target
// described by pos (nil means hidden), or nil if contentUnchanged and the
// target is exactly where the renderer last left it — re-issuing hide/move
// bytes for an already-correct cursor would violate the "no output on an
// unchanged frame" invariant.
func (r *Renderer) cursorCmds(pos *CursorPos, termWidth int, contentUnchanged bool) []output.Cmd {
	if pos == nil {
		if contentUnchanged && !r.state.CursorShown {
			return nil
		}
		r.state.CursorShown = false
		return []output.Cmd{output.HideCursor()}
	}
	if contentUnchanged && r.state.CursorShown && r.state.LastCursorRow == pos.Row && r.state.LastCursorCol == pos.Col {
		return nil
	}
	r.state.CursorShown = true
	r.state.LastCursorRow = pos.Row
	r.state.LastCursorCol = pos.Col
	return r.placeCursorCmds(*pos, termWidth)
}

// normalize appends SEGMENT_RESET to every non-image line so an open style
// or hyperlink never bleeds into content the renderer did not author.
func normalize(lines []string, isImage func(int) bool) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if isImage(i) {
			out[i] = l
			continue
		}
		out[i] = l + width.SEGMENT_RESET
	}
	return out
}

func (r *Renderer) firstRenderCmds(lines []string) []output.Cmd {
	cmds := joinLinesCmds(lines)
	r.state.CursorRow = max0(len(lines) - 1)
	r.state.HardwareCursorRow = r.state.CursorRow
	r.state.PreviousViewportTop = 0
	r.state.MaxLinesRendered = len(lines)
	r.state.firstRender = false
	return cmds
}

func (r *Renderer) fullClearCmds(lines []string) []output.Cmd {
	cmds := []output.Cmd{
		output.Bytes("\x1b[3J\x1b[2J\x1b[H"),
	}
	cmds = append(cmds, joinLinesCmds(lines)...)
	r.state.CursorRow = max0(len(lines) - 1)
	r.state.HardwareCursorRow = r.state.CursorRow
	r.state.PreviousViewportTop = 0
	r.state.MaxLinesRendered = len(lines)
	return cmds
}

// joinLinesCmds emits lines separated by \r\n, without a leading \r\n.
func joinLinesCmds(lines []string) []output.Cmd {
	var cmds []output.Cmd
	for i, l := range lines {
		if i > 0 {
			cmds = append(cmds, output.Bytes("\r\n"))
		}
		cmds = append(cmds, output.Bytes(l))
	}
	return cmds
}

// diffCmds implements the diff path: changed rows are repainted in place
// with relative cursor motion from hardware_cursor_row, new rows are
// appended, and rows beyond the new frame's length are cleared.
func (r *Renderer) diffCmds(lines []string, termWidth int, strictWidth bool, isImage func(int) bool) []output.Cmd {
	prev := r.state.PreviousLines
	firstChanged, lastChanged, changed := diffRange(prev, lines)

	if !changed {
		return nil
	}

	if firstChanged < r.state.PreviousViewportTop {
		return r.fullClearCmds(lines)
	}

	var cmds []output.Cmd
	row := r.state.HardwareCursorRow

	commonLen := len(prev)
	if len(lines) < commonLen {
		commonLen = len(lines)
	}

	for i := firstChanged; i <= lastChanged && i < commonLen; i++ {
		if i < len(prev) && prev[i] == lines[i] {
			continue
		}
		cmds = append(cmds, moveCmd(row, i)...)
		row = i
		line := lines[i]
		if !isImage(i) && strictWidth && width.VisibleWidth(line) > termWidth {
			line = clampToWidth(line, termWidth)
		}
		cmds = append(cmds, output.Bytes("\r"), output.ClearLine(), output.Bytes(line))
	}

	if len(lines) > len(prev) {
		cmds = append(cmds, moveCmd(row, max0(len(prev)-1))...)
		row = max0(len(prev) - 1)
		for i := len(prev); i < len(lines); i++ {
			cmds = append(cmds, output.Bytes("\r\n"), output.Bytes(lines[i]))
			row = i
		}
	}

	if len(lines) < r.state.MaxLinesRendered {
		for i := len(lines); i < r.state.MaxLinesRendered; i++ {
			cmds = append(cmds, moveCmd(row, i)...)
			row = i
			cmds = append(cmds, output.Bytes("\r"), output.ClearLine())
		}
		if len(lines) > 0 {
			cmds = append(cmds, moveCmd(row, len(lines)-1)...)
			row = len(lines) - 1
		}
		r.state.MaxLinesRendered = len(lines)
	}

	r.state.HardwareCursorRow = row
	r.state.CursorRow = max0(len(lines) - 1)
	return cmds
}

// clampToWidth enforces the hard-width limit on the diff path by stripping
// any trailing SEGMENT_RESET, slicing strictly, then re-appending it.
func clampToWidth(line string, termWidth int) string {
	line = strings.TrimSuffix(line, width.SEGMENT_RESET)
	return width.SliceByColumn(line, 0, termWidth, true) + width.SEGMENT_RESET
}

// diffRange reports the first and last row index (over max(len(prev),
// len(curr))) at which the two differ, and whether any row differs.
func diffRange(prev, curr []string) (first, last int, changed bool) {
	n := len(prev)
	if len(curr) > n {
		n = len(curr)
	}
	first, last = -1, -1
	for i := 0; i < n; i++ {
		var p, c string
		if i < len(prev) {
			p = prev[i]
		}
		if i < len(curr) {
			c = curr[i]
		}
		if p != c {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last, first >= 0
}

func moveCmd(from, to int) []output.Cmd {
	if from == to {
		return nil
	}
	if to < from {
		return []output.Cmd{output.MoveUp(from - to)}
	}
	return []output.Cmd{output.MoveDown(to - from)}
}

// placeCursorCmds emits absolute column motion plus relative row motion to
// reach pos from the renderer's currently tracked hardware cursor row.
func (r *Renderer) placeCursorCmds(pos CursorPos, termWidth int) []output.Cmd {
	col := pos.Col
	if termWidth > 0 && col > termWidth-1 {
		col = termWidth - 1
	}
	cmds := moveCmd(r.state.HardwareCursorRow, pos.Row)
	r.state.HardwareCursorRow = pos.Row
	cmds = append(cmds, output.Bytes("\r"))
	if col > 0 {
		cmds = append(cmds, output.ColumnAbs(col+1))
	}
	cmds = append(cmds, output.ShowCursor())
	return cmds
}

func wrapSynchronized(cmds []output.Cmd) []output.Cmd {
	if len(cmds) == 0 {
		return nil
	}
	out := make([]output.Cmd, 0, len(cmds)+2)
	out = append(out, output.SyncUpdateEnable())
	out = append(out, cmds...)
	out = append(out, output.SyncUpdateDisable())
	return out
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
