// ABOUTME: Tests for Gate.Flush: write coalescing, encoding, and the chunked-streaming path.
// ABOUTME: Mirrors the single-write-gate invariant the renderer and runtime depend on.

package output

import (
	"strings"
	"testing"
)

type recordingWriter struct {
	out        strings.Builder
	writeCalls int
}

func (r *recordingWriter) Write(p []byte) (int, error) {
	r.writeCalls++
	r.out.Write(p)
	return len(p), nil
}

func TestFlush_CoalescesIntoOneWrite(t *testing.T) {
	t.Parallel()
	g := New()
	g.Extend([]Cmd{
		HideCursor(),
		Bytes("hello"),
		Bytes(" world"),
		MoveDown(2),
		ColumnAbs(4),
		BracketedPasteEnable(),
		KittyQuery(),
		QueryCellSize(),
		BracketedPasteDisable(),
		KittyEnable(),
		KittyDisable(),
		ShowCursor(),
	})

	w := &recordingWriter{}
	if err := g.Flush(w); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	want := "\x1b[?25l" + "hello" + " world" + "\x1b[2B" + "\x1b[4G" +
		"\x1b[?2004h" + "\x1b[?u" + "\x1b[16t" + "\x1b[?2004l" +
		"\x1b[>7u" + "\x1b[<u" + "\x1b[?25h"
	if w.out.String() != want {
		t.Errorf("got %q, want %q", w.out.String(), want)
	}
	if w.writeCalls != 1 {
		t.Errorf("writeCalls = %d, want 1", w.writeCalls)
	}
}

func TestFlush_CursorCmdsEncodeToAnsi(t *testing.T) {
	t.Parallel()
	g := New()
	g.Extend([]Cmd{MoveUp(2), MoveDown(3), ColumnAbs(4)})

	w := &recordingWriter{}
	if err := g.Flush(w); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if w.out.String() != "\x1b[2A\x1b[3B\x1b[4G" {
		t.Errorf("got %q", w.out.String())
	}
	if w.writeCalls != 1 {
		t.Errorf("writeCalls = %d, want 1", w.writeCalls)
	}
}

func TestFlush_NoopWhenEmpty(t *testing.T) {
	t.Parallel()
	g := New()
	w := &recordingWriter{}
	if err := g.Flush(w); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if w.out.String() != "" || w.writeCalls != 0 {
		t.Errorf("expected no writes, got %q calls=%d", w.out.String(), w.writeCalls)
	}
}

func TestFlush_ZeroMoveIsNoop(t *testing.T) {
	t.Parallel()
	g := New()
	g.Extend([]Cmd{MoveUp(0), MoveDown(0), ColumnAbs(0), Bytes("x")})

	w := &recordingWriter{}
	_ = g.Flush(w)
	if w.out.String() != "x" {
		t.Errorf("got %q, want %q", w.out.String(), "x")
	}
}

func TestFlush_ClearsBufferAfterFlush(t *testing.T) {
	t.Parallel()
	g := New()
	g.Push(Bytes("x"))
	w := &recordingWriter{}
	_ = g.Flush(w)
	if !g.IsEmpty() {
		t.Error("expected Gate to be empty after Flush")
	}
}

func TestFlush_ChunksLargeFlush(t *testing.T) {
	t.Parallel()
	g := New()
	big := strings.Repeat("x", singleWriteLimit+1)
	g.Push(Bytes(big))

	w := &recordingWriter{}
	if err := g.Flush(w); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if w.out.String() != big {
		t.Error("chunked flush did not preserve all bytes")
	}
	if w.writeCalls < 2 {
		t.Errorf("expected multiple chunked writes, got %d", w.writeCalls)
	}
}

func TestClear_DropsWithoutWriting(t *testing.T) {
	t.Parallel()
	g := New()
	g.Push(Bytes("x"))
	g.Clear()

	w := &recordingWriter{}
	_ = g.Flush(w)
	if w.writeCalls != 0 {
		t.Error("Clear should drop commands without writing them")
	}
}
