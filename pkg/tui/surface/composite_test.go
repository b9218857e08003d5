package surface

import (
	"strings"
	"testing"

	"github.com/Gurpartap/tape-tui/pkg/tui/width"
)

func notImage(string) bool { return false }

func TestCompositeLineAt_PlainTextSplicesAtColumn(t *testing.T) {
	base := "0123456789"
	composed := CompositeLineAt(base, "XXXXXX", 2, 6, 10, notImage)
	if width.VisibleWidth(composed) != 10 {
		t.Fatalf("visible width = %d, want 10", width.VisibleWidth(composed))
	}
	if !strings.Contains(composed, "XXXXXX") {
		t.Errorf("composed line missing surface text: %q", composed)
	}
	if !strings.HasPrefix(width.StripANSI(composed), "01") {
		t.Errorf("composed line should keep base prefix before the hole: %q", composed)
	}
	if !strings.HasSuffix(width.StripANSI(composed), "89") {
		t.Errorf("composed line should keep base suffix after the hole: %q", composed)
	}
}

func TestCompositeLineAt_TruncatesOversizedSurfaceLine(t *testing.T) {
	base := "0123456789"
	surface := "ABCDEFGH" // 8 columns into a 6-wide hole
	composed := CompositeLineAt(base, surface, 2, 6, 10, notImage)
	if width.VisibleWidth(composed) != 10 {
		t.Fatalf("visible width = %d, want 10", width.VisibleWidth(composed))
	}
	if strings.Contains(width.StripANSI(composed), "GH") {
		t.Errorf("surface text should have been truncated to the hole width: %q", composed)
	}
}

func TestCompositeLineAt_PadsShortSurfaceLine(t *testing.T) {
	base := "abcdef"
	composed := CompositeLineAt(base, "Z", 0, 4, 6, notImage)
	if width.VisibleWidth(composed) != 6 {
		t.Fatalf("visible width = %d, want 6", width.VisibleWidth(composed))
	}
	if !strings.HasSuffix(width.StripANSI(composed), "ef") {
		t.Errorf("composed line should keep the base suffix: %q", composed)
	}
}

func TestCompositeLineAt_ImageLinePassesThroughUnmodified(t *testing.T) {
	base := "\x1b_Gimage-payload\x1b\\"
	isImage := func(line string) bool { return strings.Contains(line, "\x1b_G") }
	composed := CompositeLineAt(base, "overlay", 0, 4, 20, isImage)
	if composed != base {
		t.Errorf("image line was modified: got %q, want unchanged %q", composed, base)
	}
}

func TestCompositeSurfaces_NoSurfacesReturnsLinesUnchanged(t *testing.T) {
	lines := []string{"a", "b", "c"}
	result := CompositeSurfaces(lines, nil, 10, 3, 3, notImage)
	if len(result) != 3 || result[0] != "a" || result[2] != "c" {
		t.Errorf("expected unchanged lines, got %v", result)
	}
}

func TestCompositeSurfaces_SplicesEachSurfaceLineAtItsRow(t *testing.T) {
	base := []string{"XXXXXXXXXX", "INPUT"}
	surfaces := []Rendered{{Lines: []string{"OVR"}, Row: 0, Col: 5, Width: 3}}
	composed := CompositeSurfaces(base, surfaces, 10, 2, 2, notImage)
	if len(composed) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(composed))
	}
	if width.VisibleWidth(composed[0]) != 10 {
		t.Errorf("row 0 visible width = %d, want 10", width.VisibleWidth(composed[0]))
	}
	if !strings.Contains(composed[0], "OVR") {
		t.Errorf("row 0 should contain the surface text: %q", composed[0])
	}
	if composed[1] != "INPUT" {
		t.Errorf("row 1 untouched by the surface should be unchanged, got %q", composed[1])
	}
}

func TestCompositeSurfaces_GrowsLinesToReachAnchoredSurface(t *testing.T) {
	base := []string{"only line"}
	surfaces := []Rendered{{Lines: []string{"toast"}, Row: 3, Col: 0, Width: 5}}
	composed := CompositeSurfaces(base, surfaces, 20, 5, 1, notImage)
	if len(composed) < 4 {
		t.Fatalf("expected result to grow to at least 4 lines, got %d", len(composed))
	}
	if !strings.Contains(composed[3], "toast") {
		t.Errorf("row 3 should contain the surface text, got %q", composed[3])
	}
}
