package surface

import "testing"

func TestSurfaceOptions_WithLaneReservationsAddsToExistingMargin(t *testing.T) {
	margin := UniformMargin(1)
	opts := SurfaceOptions{
		Layout: Options{Margin: &margin},
		Kind:   KindModal,
	}
	adjusted := opts.WithLaneReservations(2, 3)
	if adjusted.Margin == nil {
		t.Fatal("expected a margin to be set")
	}
	if got := adjusted.Margin.top(); got != 3 {
		t.Errorf("top margin = %d, want 3 (1 original + 2 reserved)", got)
	}
	if got := adjusted.Margin.bottom(); got != 4 {
		t.Errorf("bottom margin = %d, want 4 (1 original + 3 reserved)", got)
	}
	if got := adjusted.Margin.left(); got != 1 {
		t.Errorf("left margin = %d, want 1 (unaffected)", got)
	}
	// original must be untouched
	if opts.Layout.Margin.top() != 1 {
		t.Errorf("original layout margin was mutated: top = %d", opts.Layout.Margin.top())
	}
}

func TestSurfaceOptions_KindDefaultsApplyExpectedAnchors(t *testing.T) {
	drawer := SurfaceOptions{Kind: KindDrawer}.WithLaneReservations(0, 0)
	if drawer.Anchor == nil || *drawer.Anchor != AnchorBottomCenter {
		t.Errorf("drawer anchor = %v, want BottomCenter", drawer.Anchor)
	}

	corner := SurfaceOptions{Kind: KindCorner}.WithLaneReservations(0, 0)
	if corner.Anchor == nil || *corner.Anchor != AnchorBottomRight {
		t.Errorf("corner anchor = %v, want BottomRight", corner.Anchor)
	}

	toast := SurfaceOptions{Kind: KindToast}.WithLaneReservations(0, 0)
	if toast.Row == nil || toast.Row.absolute != 0 || toast.Row.isPct {
		t.Errorf("toast row = %v, want Absolute(0)", toast.Row)
	}
	if toast.Anchor == nil || *toast.Anchor != AnchorTopRight {
		t.Errorf("toast anchor = %v, want TopRight", toast.Anchor)
	}

	attachment := SurfaceOptions{Kind: KindAttachmentRow}.WithLaneReservations(0, 0)
	if attachment.Anchor == nil || *attachment.Anchor != AnchorBottomLeft {
		t.Errorf("attachment row anchor = %v, want BottomLeft", attachment.Anchor)
	}
}

func TestSurfaceOptions_KindDefaultsDoNotOverrideExplicitAnchor(t *testing.T) {
	explicit := anchorPtr(AnchorTopLeft)
	opts := SurfaceOptions{Kind: KindDrawer, Layout: Options{Anchor: explicit}}
	adjusted := opts.WithLaneReservations(0, 0)
	if adjusted.Anchor != explicit {
		t.Errorf("explicit anchor should survive kind defaulting")
	}
}

func TestCompositor_ShowBringsToFrontByDefault(t *testing.T) {
	c := NewCompositor()
	a := c.Show(1, SurfaceOptions{})
	b := c.Show(2, SurfaceOptions{})

	comp, ok := c.TopmostVisibleComponent(80, 24, false)
	if !ok || comp != 2 {
		t.Fatalf("topmost component = %d (ok=%v), want 2", comp, ok)
	}

	c.BringToFront(a)
	comp, ok = c.TopmostVisibleComponent(80, 24, false)
	if !ok || comp != 1 {
		t.Fatalf("after BringToFront(a), topmost = %d, want 1", comp)
	}
	_ = b
}

func TestCompositor_HideRemovesFromTopmostSearch(t *testing.T) {
	c := NewCompositor()
	a := c.Show(1, SurfaceOptions{})
	_ = c.Show(2, SurfaceOptions{})
	c.Hide(2)

	comp, ok := c.TopmostVisibleComponent(80, 24, false)
	if !ok || comp != 1 {
		t.Fatalf("topmost after hiding surface 2 = %d, want component 1 (from surface %v)", comp, a)
	}
}

func TestCompositor_CaptureOnlySkipsPassthroughSurfaces(t *testing.T) {
	c := NewCompositor()
	c.Show(1, SurfaceOptions{InputPolicy: InputCapture})
	c.Show(2, SurfaceOptions{InputPolicy: InputPassthrough})

	comp, ok := c.TopmostVisibleComponent(80, 24, true)
	if !ok || comp != 1 {
		t.Fatalf("capture-only topmost = %d (ok=%v), want component 1 (passthrough surface skipped)", comp, ok)
	}

	comp, ok = c.TopmostVisibleComponent(80, 24, false)
	if !ok || comp != 2 {
		t.Fatalf("non-capture-only topmost = %d, want component 2 (topmost regardless of policy)", comp)
	}
}

func TestCompositor_VisibilityGatesTopmostSearch(t *testing.T) {
	c := NewCompositor()
	c.Show(1, SurfaceOptions{})
	c.Show(2, SurfaceOptions{Layout: Options{Visibility: VisibilityMinCols(200)}})

	comp, ok := c.TopmostVisibleComponent(80, 24, false)
	if !ok || comp != 1 {
		t.Fatalf("topmost = %d, want component 1 (surface 2 hidden below its min-cols threshold)", comp)
	}
}

func TestCompositor_CloseReturnsPreFocus(t *testing.T) {
	c := NewCompositor()
	id := c.ShowWithPreFocus(1, SurfaceOptions{}, 99)
	preFocus, ok := c.Close(id)
	if !ok || preFocus != 99 {
		t.Fatalf("Close returned preFocus=%d ok=%v, want 99/true", preFocus, ok)
	}
	if c.Contains(id) {
		t.Error("surface should be removed from the stack after Close")
	}
}

func TestCompositor_VisibleSnapshotPreservesZOrder(t *testing.T) {
	c := NewCompositor()
	c.Show(1, SurfaceOptions{})
	c.Show(2, SurfaceOptions{})
	c.Show(3, SurfaceOptions{})

	snap := c.VisibleSnapshot(80, 24)
	if len(snap) != 3 {
		t.Fatalf("expected 3 visible entries, got %d", len(snap))
	}
	if snap[0].ComponentID != 1 || snap[2].ComponentID != 3 {
		t.Errorf("snapshot order = %v, want bottom-to-top 1,2,3", snap)
	}
}
