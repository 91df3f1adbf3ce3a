package render

import (
	"fmt"
	"strconv"
	"strings"

	"mrbdump/internal/rite"
)

// Block is a code block with its path in the tree: "0" for the program,
// "0.1" for the program's second child and so on.
type Block struct {
	Path  string
	Block *rite.CodeBlock
}

// Blocks lists every block of dump depth first.
func Blocks(dump *rite.Dump) []Block {
	if dump == nil || dump.Program == nil {
		return nil
	}
	out := make([]Block, 0, dump.Program.Count())
	var walk func(b *rite.CodeBlock, path string)
	walk = func(b *rite.CodeBlock, path string) {
		out = append(out, Block{Path: path, Block: b})
		for _, c := range b.Children {
			walk(c, path+"."+strconv.Itoa(c.Index))
		}
	}
	walk(dump.Program, "0")
	return out
}

// Line is one row of a block listing.
type Line struct {
	PC      int
	Text    string
	Comment string // resolved operand and source position, may be empty
}

func (l Line) String() string {
	s := fmt.Sprintf("%03d  %s", l.PC, l.Text)
	if l.Comment != "" {
		s += "\t; " + l.Comment
	}
	return s
}

// Listing disassembles b. With resolve set, comments carry the symbol or
// literal an instruction refers to. Source positions are added whenever the
// block has debug info.
func Listing(b *rite.CodeBlock, resolve bool) []Line {
	ins := b.Instructions()
	out := make([]Line, 0, len(ins))
	for _, in := range ins {
		var comments []string
		if resolve {
			if name, ok := b.Resolve(in); ok {
				comments = append(comments, EscapeUnprintable(name))
			}
		}
		if file, line, ok := b.Debug.Line(in.PC); ok {
			comments = append(comments, fmt.Sprintf("%s:%d", file, line))
		}
		out = append(out, Line{PC: in.PC, Text: in.Text, Comment: strings.Join(comments, "  ")})
	}
	return out
}

// ListingText joins the listing of b into one string.
func ListingText(b *rite.CodeBlock, resolve bool) string {
	lines := Listing(b, resolve)
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
