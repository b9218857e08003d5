// ABOUTME: Pure surface geometry: anchors, sizing, margins, and layout resolution.
// ABOUTME: ResolveLayout mirrors the render-layer algorithm; runtime code layers kind/input-policy on top.

package surface

// Anchor places a surface within the available terminal area when Row/Col
// are not explicitly set.
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorTopLeft
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
	AnchorTopCenter
	AnchorBottomCenter
	AnchorLeftCenter
	AnchorRightCenter
)

// Margin reserves cells around a surface's layout bounds. A nil field means
// "unset", distinct from zero.
type Margin struct {
	Top, Right, Bottom, Left *int
}

// UniformMargin returns a Margin with the same value on all four sides.
func UniformMargin(value int) Margin {
	return Margin{Top: &value, Right: &value, Bottom: &value, Left: &value}
}

func (m Margin) top() int {
	if m.Top == nil {
		return 0
	}
	return *m.Top
}

func (m Margin) right() int {
	if m.Right == nil {
		return 0
	}
	return *m.Right
}

func (m Margin) bottom() int {
	if m.Bottom == nil {
		return 0
	}
	return *m.Bottom
}

func (m Margin) left() int {
	if m.Left == nil {
		return 0
	}
	return *m.Left
}

// SizeValue is either an absolute cell count or a percentage of a
// reference dimension.
type SizeValue struct {
	absolute int
	percent  float64
	isPct    bool
}

// Absolute returns a SizeValue fixed at value cells.
func Absolute(value int) SizeValue { return SizeValue{absolute: value} }

// Percent returns a SizeValue that resolves to percent of a reference
// dimension. Negative percentages clamp to zero.
func Percent(percent float64) SizeValue { return SizeValue{percent: percent, isPct: true} }

func (v SizeValue) resolve(reference int) int {
	if !v.isPct {
		return v.absolute
	}
	pct := v.percent
	if pct < 0 {
		pct = 0
	}
	return int((float64(reference) * (pct / 100.0)))
}

// Layout is the resolved placement of a single surface.
type Layout struct {
	Width     int
	Row       int
	Col       int
	MaxHeight int
	HasMaxHeight bool
}

// Visibility gates whether a surface renders at all for a given terminal
// size, independent of its resolved layout.
type Visibility struct {
	// always is the zero value: visible regardless of terminal size.
	minCols int
	minRows int
	kind    visibilityKind
}

type visibilityKind int

const (
	visibilityAlways visibilityKind = iota
	visibilityMinCols
	visibilityMinSize
)

// VisibilityAlways is visible at every terminal size.
var VisibilityAlways = Visibility{kind: visibilityAlways}

// VisibilityMinCols hides the surface when the terminal is narrower than
// minCols columns.
func VisibilityMinCols(minCols int) Visibility {
	return Visibility{kind: visibilityMinCols, minCols: minCols}
}

// VisibilityMinSize hides the surface unless the terminal has at least
// minCols columns and minRows rows.
func VisibilityMinSize(minCols, minRows int) Visibility {
	return Visibility{kind: visibilityMinSize, minCols: minCols, minRows: minRows}
}

// IsVisible evaluates the policy against a terminal size.
func (v Visibility) IsVisible(columns, rows int) bool {
	switch v.kind {
	case visibilityMinCols:
		return columns >= v.minCols
	case visibilityMinSize:
		return columns >= v.minCols && rows >= v.minRows
	default:
		return true
	}
}

// Options describes how a surface should be sized and positioned.
// A nil pointer field means "let ResolveLayout pick a default".
type Options struct {
	Width      *SizeValue
	MinWidth   *int
	MaxHeight  *SizeValue
	Anchor     *Anchor
	OffsetX    *int
	OffsetY    *int
	Row        *SizeValue
	Col        *SizeValue
	Margin     *Margin
	Visibility Visibility
}

// IsVisible evaluates opts.Visibility against a terminal size.
func (o Options) IsVisible(columns, rows int) bool {
	return o.Visibility.IsVisible(columns, rows)
}

func clampWithin(value, min, max int) int {
	if min > max {
		return max
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func applyOffset(value, offset int) int {
	result := value + offset
	if result < 0 {
		return 0
	}
	return result
}

// ResolveLayout computes a surface's width, row, col, and optional max
// height from opts against a surface of the given content height, inside a
// terminal of termWidth x termHeight cells. opts may be nil to use every
// default.
func ResolveLayout(opts *Options, surfaceHeight, termWidth, termHeight int) Layout {
	if opts == nil {
		opts = &Options{}
	}

	var margin Margin
	if opts.Margin != nil {
		margin = *opts.Margin
	}
	marginTop, marginRight := margin.top(), margin.right()
	marginBottom, marginLeft := margin.bottom(), margin.left()

	availWidth := max1(termWidth - (marginLeft + marginRight))
	availHeight := max1(termHeight - (marginTop + marginBottom))

	width := min(80, availWidth)
	if opts.Width != nil {
		width = opts.Width.resolve(termWidth)
	}
	if opts.MinWidth != nil && *opts.MinWidth > width {
		width = *opts.MinWidth
	}
	width = clampWithin(width, 1, availWidth)

	var maxHeight int
	hasMaxHeight := opts.MaxHeight != nil
	if hasMaxHeight {
		maxHeight = clampWithin(opts.MaxHeight.resolve(termHeight), 1, availHeight)
	}

	effectiveHeight := surfaceHeight
	if hasMaxHeight && maxHeight < effectiveHeight {
		effectiveHeight = maxHeight
	}

	anchor := AnchorCenter
	if opts.Anchor != nil {
		anchor = *opts.Anchor
	}

	var row int
	if opts.Row != nil {
		if opts.Row.isPct {
			maxRow := saturatingSub(availHeight, effectiveHeight)
			pct := opts.Row.percent
			if pct < 0 {
				pct = 0
			}
			row = marginTop + int(float64(maxRow)*(pct/100.0))
		} else {
			row = opts.Row.absolute
		}
	} else {
		row = resolveAnchorRow(anchor, effectiveHeight, availHeight, marginTop)
	}

	var col int
	if opts.Col != nil {
		if opts.Col.isPct {
			maxCol := saturatingSub(availWidth, width)
			pct := opts.Col.percent
			if pct < 0 {
				pct = 0
			}
			col = marginLeft + int(float64(maxCol)*(pct/100.0))
		} else {
			col = opts.Col.absolute
		}
	} else {
		col = resolveAnchorCol(anchor, width, availWidth, marginLeft)
	}

	if opts.OffsetY != nil {
		row = applyOffset(row, *opts.OffsetY)
	}
	if opts.OffsetX != nil {
		col = applyOffset(col, *opts.OffsetX)
	}

	maxRowBound := saturatingSub(termHeight, marginBottom+effectiveHeight)
	row = clampWithin(row, marginTop, maxRowBound)
	maxColBound := saturatingSub(termWidth, marginRight+width)
	col = clampWithin(col, marginLeft, maxColBound)

	return Layout{Width: width, Row: row, Col: col, MaxHeight: maxHeight, HasMaxHeight: hasMaxHeight}
}

func resolveAnchorRow(anchor Anchor, height, availHeight, marginTop int) int {
	switch anchor {
	case AnchorTopLeft, AnchorTopCenter, AnchorTopRight:
		return marginTop
	case AnchorBottomLeft, AnchorBottomCenter, AnchorBottomRight:
		return marginTop + saturatingSub(availHeight, height)
	default: // LeftCenter, Center, RightCenter
		return marginTop + saturatingSub(availHeight, height)/2
	}
}

func resolveAnchorCol(anchor Anchor, width, availWidth, marginLeft int) int {
	switch anchor {
	case AnchorTopLeft, AnchorLeftCenter, AnchorBottomLeft:
		return marginLeft
	case AnchorTopRight, AnchorRightCenter, AnchorBottomRight:
		return marginLeft + saturatingSub(availWidth, width)
	default: // TopCenter, Center, BottomCenter
		return marginLeft + saturatingSub(availWidth, width)/2
	}
}

func saturatingSub(a, b int) int {
	if a < b {
		return 0
	}
	return a - b
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
