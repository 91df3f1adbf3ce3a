// Package render turns decode results into text, JSON and markdown.
package render

import (
	"fmt"
	"io"

	"mrbdump/internal/rite"
)

// Text writes decode events in the classic dump layout as they arrive. It
// is meant to be installed as rite.Options.Sink, so output produced before
// a fatal error is kept.
type Text struct {
	w   io.Writer
	err error

	// Highlight, when set, is applied to every instruction line.
	Highlight func(string) string
}

// NewText returns a Text writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Err returns the first write error.
func (t *Text) Err() error { return t.err }

func (t *Text) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

// Sink returns the event handler.
func (t *Text) Sink() rite.Sink { return t.Event }

// Event writes the lines of one event.
func (t *Text) Event(e rite.Event) {
	switch e := e.(type) {
	case rite.HeaderEvent:
		h := e.Header
		t.printf("Rite Binary Identifier: %s\n", h.Ident)
		t.printf("Rite Binary Version: %q\n", h.Version)
		t.printf("Rite Binary CRC: 0x%x\n", h.CRC)
		t.printf("Rite Binary Size: %d\n", h.Size)
		t.printf("Rite Compiler Name: %q\n", h.CompilerName)
		t.printf("Rite Compiler Version: %q\n", h.CompilerVersion)
		t.printf("\n")

	case rite.SectionEvent:
		t.printf("Section #%d:\n", e.Number)
		t.printf("Section Identifier: %s\n", e.Section.Name())
		t.printf("Section Size: %d\n", e.Section.Size)

	case rite.SectionEndEvent:
		switch e.Section.Tag {
		case rite.TagIREP, rite.TagDBG:
		case rite.TagLINE:
			t.printf("(skip)\n")
		default:
			t.printf("(unknown section)\n")
		}
		t.printf("\n")

	case rite.EndEvent:
		t.printf("Section #%d:\n", e.Number)
		t.printf("Section Identifier: END\n")

	case rite.RiteVersionEvent:
		t.printf("IREP Rite Instruction Specification Version: %s\n", e.Version)

	case rite.IrepEvent:
		t.printf("IREP Record Size: %d\n", e.RecordSize)
		t.printf("Number of Local Variables: %d\n", e.NLocals)
		t.printf("Number of Register Variables: %d\n", e.NRegs)
		t.printf("Number of Child IREPs: %d\n", e.RLen)

	case rite.TableEvent:
		switch e.Table {
		case rite.TableISeq:
			t.printf("  Number of Opcodes: %d\n", e.Count)
		case rite.TablePool:
			t.printf("  Number of Pool Values: %d\n", e.Count)
		case rite.TableSyms:
			t.printf("  Number of Symbols: %d\n", e.Count)
		}

	case rite.InstructionEvent:
		line := e.Instruction.Text
		if t.Highlight != nil {
			line = t.Highlight(line)
		}
		t.printf("    %s\n", line)

	case rite.PoolEvent:
		t.printf("    %03d: %s\n", e.Index, EscapeUnprintable(e.Entry.Value))

	case rite.SymbolEvent:
		t.printf("    %03d: %s\n", e.Index, EscapeUnprintable(e.Symbol.String()))

	case rite.LineRecordEvent:
		t.printf("  Lineno Record #%d\n", e.Index)
		t.printf("  Lineno Record Length: %d\n", e.Length)
		t.printf("  Lineno Filename: %s\n", e.Filename)

	case rite.FileTableEvent:
		t.printf("  Number of Filenames: %d\n", len(e.Files))
		for _, f := range e.Files {
			t.printf("    %s\n", f)
		}

	case rite.DebugRecordEvent:
		t.printf("  Debug Record Size: %d\n", e.RecordSize)

	case rite.DebugFileEvent:
		a := e.Assoc
		t.printf("    filename: %s\n", a.Filename)
		t.printf("    lines:\n")
		switch a.Type {
		case rite.LineArray:
			for j, l := range a.Lines {
				t.printf("      %04d %d\n", j, l)
			}
		case rite.LineFlatMap:
			for _, m := range a.Map {
				t.printf("      %04d %d\n", m.Start, m.Line)
			}
		}

	case rite.WarningEvent:
		t.printf("(warning: %v)\n", e.Err)
	}
}
