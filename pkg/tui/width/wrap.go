// ABOUTME: ANSI-aware text wrapping and truncation.
// ABOUTME: WrapTextWithAnsi wraps at column boundaries, carrying SGR and OSC-8 hyperlink state across breaks.

package width

import (
	"strings"

	"github.com/Gurpartap/tape-tui/internal/ansitrack"
	"github.com/rivo/uniseg"
)

// WrapTextWithAnsi wraps s into lines of at most maxWidth visible columns.
// ANSI escape sequences are preserved and do not count toward width. An
// OSC-8 hyperlink that spans a wrap point is closed at the break and
// re-opened on the next line, since a terminal would otherwise consider
// the link closed after the unbroken ESC ] 8 ; ; BEL pair is split. A line
// breaks at the first grapheme that would overflow maxWidth; spaces are not
// treated as break points, so a word is split wherever the width runs out.
func WrapTextWithAnsi(s string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}
	if s == "" {
		return []string{""}
	}

	var lines []string
	var currentLine strings.Builder
	currentWidth := 0
	var sgr ansitrack.Tracker

	startLine := func() {
		prefix := sgr.Restore()
		if prefix != "" {
			currentLine.WriteString(prefix)
		}
	}

	breakLine := func() {
		if sgr.IsActive() {
			currentLine.WriteString(SEGMENT_RESET)
		}
		lines = append(lines, currentLine.String())
		currentLine.Reset()
		currentWidth = 0
		startLine()
	}

	i := 0
	for i < len(s) {
		if s[i] == '\n' {
			breakLine()
			i++
			continue
		}

		if s[i] == '\x1b' {
			end := skipANSISequence(s, i)
			seq := s[i:end]
			sgr.Process(seq)
			currentLine.WriteString(seq)
			i = end
			continue
		}

		// Read a grapheme cluster
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(s[i:], -1)
		w := graphemeWidth(cluster)

		if currentWidth+w > maxWidth {
			breakLine()
		}

		currentLine.WriteString(cluster)
		currentWidth += w
		i += len(s[i:]) - len(rest)
	}

	lines = append(lines, currentLine.String())
	return lines
}

// TruncateToWidth truncates s to at most maxWidth visible columns.
// If truncation occurs, the last visible character is replaced with ellipsis.
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	w := VisibleWidth(s)
	if w <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…" // single ellipsis character
	}

	var b strings.Builder
	col := 0
	target := maxWidth - 1 // Leave room for ellipsis
	i := 0
	for i < len(s) && col < target {
		if s[i] == '\x1b' {
			end := skipANSISequence(s, i)
			b.WriteString(s[i:end])
			i = end
			continue
		}
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(s[i:], -1)
		cw := graphemeWidth(cluster)
		if col+cw > target {
			break
		}
		b.WriteString(cluster)
		col += cw
		i += len(s[i:]) - len(rest)
	}
	b.WriteString("\x1b[0m") // Reset before ellipsis
	b.WriteRune('…')
	return b.String()
}
