package tui

import "testing"

func TestRenderBuffer_Pool(t *testing.T) {
	buf := AcquireBuffer()
	buf.WriteLine("one")
	buf.WriteLine("two")
	if buf.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", buf.Len())
	}
	ReleaseBuffer(buf)

	// A released buffer must come back empty on reacquire, whether it's
	// the same underlying allocation or a fresh one from sync.Pool.New.
	next := AcquireBuffer()
	defer ReleaseBuffer(next)
	if next.Len() != 0 {
		t.Errorf("Len() after reacquire = %d, want 0", next.Len())
	}
}

func TestRenderBuffer_WriteLines(t *testing.T) {
	buf := AcquireBuffer()
	defer ReleaseBuffer(buf)

	buf.WriteLines([]string{"a", "b", "c"})
	if buf.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", buf.Len())
	}
	for i, want := range []string{"a", "b", "c"} {
		if buf.Lines[i] != want {
			t.Errorf("Lines[%d] = %q, want %q", i, buf.Lines[i], want)
		}
	}
}

func TestRenderBuffer_ReleaseNilIsSafe(t *testing.T) {
	ReleaseBuffer(nil)
}
