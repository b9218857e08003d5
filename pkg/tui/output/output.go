// ABOUTME: Cmd is the tagged union of terminal commands; Gate is the single point every write must pass through.
// ABOUTME: Flush coalesces the buffered commands into one encoded write, or a bounded streaming sequence of chunked writes.

package output

import (
	"strconv"
	"strings"

	"github.com/Gurpartap/tape-tui/internal/pool"
)

// Writer is the minimal sink a Gate flushes to. terminal.ProcessTerminal
// and terminal.VirtualTerminal both satisfy it via their Write method.
type Writer interface {
	Write(p []byte) (n int, err error)
}

// CmdKind tags a Cmd's variant.
type CmdKind int

const (
	CmdBytes CmdKind = iota
	CmdHideCursor
	CmdShowCursor
	CmdMoveUp
	CmdMoveDown
	CmdColumnAbs
	CmdBracketedPasteEnable
	CmdBracketedPasteDisable
	CmdKittyQuery
	CmdKittyEnable
	CmdKittyDisable
	CmdQueryCellSize
	CmdSyncUpdateEnable
	CmdSyncUpdateDisable
	CmdClearLine
	CmdClearScreen
	CmdClearFromCursor
	CmdSetTitle
	CmdSaveCursor
	CmdRestoreCursor
)

// Cmd is one terminal command. Only the field(s) relevant to Kind are set:
// N for MoveUp/MoveDown/ColumnAbs, Data for Bytes/SetTitle.
type Cmd struct {
	Kind CmdKind
	N    int
	Data string
}

func Bytes(data string) Cmd      { return Cmd{Kind: CmdBytes, Data: data} }
func HideCursor() Cmd            { return Cmd{Kind: CmdHideCursor} }
func ShowCursor() Cmd            { return Cmd{Kind: CmdShowCursor} }
func MoveUp(n int) Cmd           { return Cmd{Kind: CmdMoveUp, N: n} }
func MoveDown(n int) Cmd         { return Cmd{Kind: CmdMoveDown, N: n} }
func ColumnAbs(n int) Cmd        { return Cmd{Kind: CmdColumnAbs, N: n} }
func BracketedPasteEnable() Cmd  { return Cmd{Kind: CmdBracketedPasteEnable} }
func BracketedPasteDisable() Cmd { return Cmd{Kind: CmdBracketedPasteDisable} }
func KittyQuery() Cmd            { return Cmd{Kind: CmdKittyQuery} }
func KittyEnable() Cmd           { return Cmd{Kind: CmdKittyEnable} }
func KittyDisable() Cmd          { return Cmd{Kind: CmdKittyDisable} }
func QueryCellSize() Cmd         { return Cmd{Kind: CmdQueryCellSize} }
func SyncUpdateEnable() Cmd      { return Cmd{Kind: CmdSyncUpdateEnable} }
func SyncUpdateDisable() Cmd     { return Cmd{Kind: CmdSyncUpdateDisable} }
func ClearLine() Cmd             { return Cmd{Kind: CmdClearLine} }
func ClearScreen() Cmd           { return Cmd{Kind: CmdClearScreen} }
func ClearFromCursor() Cmd       { return Cmd{Kind: CmdClearFromCursor} }
func SetTitle(title string) Cmd  { return Cmd{Kind: CmdSetTitle, Data: title} }
func SaveCursor() Cmd            { return Cmd{Kind: CmdSaveCursor} }
func RestoreCursor() Cmd         { return Cmd{Kind: CmdRestoreCursor} }

// streamChunkSize is the streaming-write threshold: an encoded flush larger
// than this is written in chunks rather than as one oversized write(2).
const streamChunkSize = 16 * 1024

// singleWriteLimit is the largest encoded flush written in a single call;
// above it Gate switches to chunked streaming.
const singleWriteLimit = 64 * 1024

// Gate is the single serialization point for terminal writes: every Cmd a
// component or the runtime wants to emit is pushed here, and Flush encodes
// and writes them as one write (or a bounded sequence of chunks) so that no
// two goroutines ever interleave partial escape sequences on the wire.
type Gate struct {
	cmds []Cmd
}

// New returns an empty Gate.
func New() *Gate {
	return &Gate{}
}

// Push appends a single command.
func (g *Gate) Push(cmd Cmd) {
	g.cmds = append(g.cmds, cmd)
}

// Extend appends a batch of commands in order.
func (g *Gate) Extend(cmds []Cmd) {
	g.cmds = append(g.cmds, cmds...)
}

// IsEmpty reports whether there are no buffered commands.
func (g *Gate) IsEmpty() bool {
	return len(g.cmds) == 0
}

// Clear drops all buffered commands without writing them.
func (g *Gate) Clear() {
	g.cmds = g.cmds[:0]
}

// Flush encodes every buffered command into terminal bytes and writes them
// to w, then clears the buffer. Writes under singleWriteLimit go out as one
// call; larger flushes are split into streamChunkSize pieces so a single
// frame never forces an oversized write(2) syscall.
func (g *Gate) Flush(w Writer) error {
	if len(g.cmds) == 0 {
		return nil
	}

	b := pool.GetStringBuilder()
	defer pool.PutStringBuilder(b)

	for _, cmd := range g.cmds {
		encode(b, cmd)
	}
	g.cmds = g.cmds[:0]

	data := b.String()
	if len(data) <= singleWriteLimit {
		_, err := w.Write([]byte(data))
		return err
	}
	for len(data) > 0 {
		n := streamChunkSize
		if n > len(data) {
			n = len(data)
		}
		if _, err := w.Write([]byte(data[:n])); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

func encode(b *strings.Builder, cmd Cmd) {
	switch cmd.Kind {
	case CmdBytes:
		b.WriteString(cmd.Data)
	case CmdHideCursor:
		b.WriteString("\x1b[?25l")
	case CmdShowCursor:
		b.WriteString("\x1b[?25h")
	case CmdMoveUp:
		if cmd.N > 0 {
			b.WriteString("\x1b[")
			b.WriteString(strconv.Itoa(cmd.N))
			b.WriteString("A")
		}
	case CmdMoveDown:
		if cmd.N > 0 {
			b.WriteString("\x1b[")
			b.WriteString(strconv.Itoa(cmd.N))
			b.WriteString("B")
		}
	case CmdColumnAbs:
		if cmd.N > 0 {
			b.WriteString("\x1b[")
			b.WriteString(strconv.Itoa(cmd.N))
			b.WriteString("G")
		}
	case CmdBracketedPasteEnable:
		b.WriteString("\x1b[?2004h")
	case CmdBracketedPasteDisable:
		b.WriteString("\x1b[?2004l")
	case CmdKittyQuery:
		b.WriteString("\x1b[?u")
	case CmdKittyEnable:
		b.WriteString("\x1b[>7u")
	case CmdKittyDisable:
		b.WriteString("\x1b[<u")
	case CmdQueryCellSize:
		b.WriteString("\x1b[16t")
	case CmdSyncUpdateEnable:
		b.WriteString("\x1b[?2026h")
	case CmdSyncUpdateDisable:
		b.WriteString("\x1b[?2026l")
	case CmdClearLine:
		b.WriteString("\x1b[2K")
	case CmdClearScreen:
		b.WriteString("\x1b[2J")
	case CmdClearFromCursor:
		b.WriteString("\x1b[0J")
	case CmdSetTitle:
		b.WriteString("\x1b]0;")
		b.WriteString(cmd.Data)
		b.WriteString("\x07")
	case CmdSaveCursor:
		b.WriteString("\x1b[s")
	case CmdRestoreCursor:
		b.WriteString("\x1b[u")
	}
}
