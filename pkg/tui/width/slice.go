// ABOUTME: Column-based string slicing with ANSI-awareness.
// ABOUTME: SliceByColumn extracts a visual range from styled text, carrying style state across the boundary.

package width

import (
	"github.com/Gurpartap/tape-tui/internal/ansitrack"
	"github.com/rivo/uniseg"
)

// SEGMENT_RESET resets SGR and closes any open OSC-8 hyperlink. Appended by
// SliceByColumn when a slice opens a style it does not itself close, and by
// the diff renderer after every non-image line.
const SEGMENT_RESET = "\x1b[0m\x1b]8;;\x07"

// segment represents either a visible grapheme cluster or an ANSI sequence.
type segment struct {
	text  string
	col   int
	width int
	isSeq bool
}

// extractSegments breaks a string into segments of visible text and ANSI
// sequences, each tagged with its starting column.
func extractSegments(s string) []segment {
	var segs []segment
	col := 0
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' {
			end := skipANSISequence(s, i)
			segs = append(segs, segment{text: s[i:end], col: col, isSeq: true})
			i = end
			continue
		}
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(s[i:], -1)
		w := graphemeWidth(cluster)
		segs = append(segs, segment{text: cluster, col: col, width: w})
		col += w
		i += len(s[i:]) - len(rest)
	}
	return segs
}

// SliceByColumn extracts the substring whose visible columns lie in
// [start, start+length), preserving intervening escape sequences and
// carrying any style active at the boundary into the slice. In strict
// mode, a grapheme that straddles the right boundary is dropped rather
// than emitted partially. In either mode, a SEGMENT_RESET is appended if
// the slice opened a style it did not close.
func SliceByColumn(s string, start, length int, strict bool) string {
	end := start + length
	if start >= end || s == "" {
		return ""
	}

	segments := extractSegments(s)
	var carried ansitrack.Tracker
	var result []byte
	opened := false

	for _, seg := range segments {
		if seg.isSeq {
			if seg.col < start {
				carried.Process(seg.text)
				continue
			}
			if seg.col >= end {
				continue
			}
			carried.Process(seg.text)
			result = append(result, seg.text...)
			opened = opened || carried.IsActive()
			continue
		}

		segEnd := seg.col + seg.width
		if segEnd <= start || seg.col >= end {
			continue
		}
		if strict && segEnd > end {
			continue // straddles the right boundary; drop rather than emit partial
		}

		if len(result) == 0 && carried.IsActive() {
			result = append(result, []byte(carried.Restore())...)
			opened = true
		}
		result = append(result, seg.text...)
	}

	if opened && carried.IsActive() {
		result = append(result, []byte(SEGMENT_RESET)...)
	}
	return string(result)
}

// ExtractHole slices s into (before, hole, after) at visible columns
// [start, start+length), so a surface can be composited over the hole
// without corrupting the surrounding style state. before and after each
// carry their own SEGMENT_RESET if they open a style they don't close.
func ExtractHole(s string, start, length int) (before, hole, after string) {
	totalWidth := VisibleWidth(s)
	before = SliceByColumn(s, 0, start, true)
	hole = SliceByColumn(s, start, length, true)
	afterStart := start + length
	if afterStart < totalWidth {
		after = SliceByColumn(s, afterStart, totalWidth-afterStart, true)
	}
	return before, hole, after
}
