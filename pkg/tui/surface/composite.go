// ABOUTME: Compositing: splices rendered surface lines over base content lines at resolved positions.
// ABOUTME: CompositeLineAt guards style bleed across the splice with width.SEGMENT_RESET on both sides.

package surface

import (
	"strings"

	"github.com/Gurpartap/tape-tui/pkg/tui/width"
)

// Rendered is a surface's already-rendered lines, positioned at Row/Col by
// a prior ResolveLayout call.
type Rendered struct {
	Lines []string
	Row   int
	Col   int
	Width int
}

// IsImageLine reports whether a line carries an inline image escape that
// must never be spliced into or truncated, since doing so corrupts the
// terminal's reassembly of the image payload.
type IsImageLine func(line string) bool

// CompositeSurfaces splices every surface's lines onto lines at their
// resolved Row/Col, growing lines as needed so surfaces anchored past the
// current content still land in bounds. maxLinesRendered is the largest
// line count already committed to the differential renderer this session;
// growing past it is allowed but never shrinks below it.
func CompositeSurfaces(lines []string, surfaces []Rendered, termWidth, termHeight, maxLinesRendered int, isImage IsImageLine) []string {
	if len(surfaces) == 0 {
		return lines
	}
	if isImage == nil {
		isImage = func(string) bool { return false }
	}

	result := append([]string(nil), lines...)

	minLinesNeeded := len(result)
	for _, s := range surfaces {
		if need := s.Row + len(s.Lines); need > minLinesNeeded {
			minLinesNeeded = need
		}
	}

	workingHeight := maxLinesRendered
	if minLinesNeeded > workingHeight {
		workingHeight = minLinesNeeded
	}
	for len(result) < workingHeight {
		result = append(result, "")
	}

	viewportStart := saturatingSub(workingHeight, termHeight)

	modified := make(map[int]struct{})
	for _, s := range surfaces {
		for i, line := range s.Lines {
			idx := viewportStart + s.Row + i
			if idx >= len(result) {
				continue
			}
			truncated := line
			if width.VisibleWidth(line) > s.Width {
				truncated = width.SliceByColumn(line, 0, s.Width, true)
			}
			result[idx] = CompositeLineAt(result[idx], truncated, s.Col, s.Width, termWidth, isImage)
			modified[idx] = struct{}{}
		}
	}

	for idx := range modified {
		if width.VisibleWidth(result[idx]) > termWidth {
			result[idx] = width.SliceByColumn(result[idx], 0, termWidth, true)
		}
	}

	return result
}

// CompositeLineAt splices surfaceLine (already truncated to surfaceWidth)
// into baseLine at startCol, padding both the hole and any shortfall in
// surfaceLine's own width with spaces, and closing whatever style either
// side leaves open with width.SEGMENT_RESET so splice boundaries never
// bleed color or hyperlinks across each other.
func CompositeLineAt(baseLine, surfaceLine string, startCol, surfaceWidth, totalWidth int, isImage IsImageLine) string {
	if isImage != nil && isImage(baseLine) {
		return baseLine
	}

	before, _, after := width.ExtractHole(baseLine, startCol, surfaceWidth)
	beforeWidth := width.VisibleWidth(before)
	afterWidth := width.VisibleWidth(after)

	surfaceText := surfaceLine
	surfaceTextWidth := width.VisibleWidth(surfaceText)
	if surfaceTextWidth > surfaceWidth {
		surfaceText = width.SliceByColumn(surfaceText, 0, surfaceWidth, true)
		surfaceTextWidth = width.VisibleWidth(surfaceText)
	}

	beforePad := saturatingSub(startCol, beforeWidth)
	surfacePad := saturatingSub(surfaceWidth, surfaceTextWidth)
	actualBeforeWidth := startCol
	if beforeWidth > actualBeforeWidth {
		actualBeforeWidth = beforeWidth
	}
	actualSurfaceWidth := surfaceWidth
	if surfaceTextWidth > actualSurfaceWidth {
		actualSurfaceWidth = surfaceTextWidth
	}
	afterTarget := saturatingSub(totalWidth, actualBeforeWidth+actualSurfaceWidth)
	afterPad := saturatingSub(afterTarget, afterWidth)

	var b strings.Builder
	b.WriteString(before)
	b.WriteString(strings.Repeat(" ", beforePad))
	b.WriteString(width.SEGMENT_RESET)
	b.WriteString(surfaceText)
	b.WriteString(strings.Repeat(" ", surfacePad))
	b.WriteString(width.SEGMENT_RESET)
	b.WriteString(after)
	b.WriteString(strings.Repeat(" ", afterPad))

	result := b.String()
	if width.VisibleWidth(result) <= totalWidth {
		return result
	}
	return width.SliceByColumn(result, 0, totalWidth, true)
}
