package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// RITE tokenizes disassembly lines as printed by the decoder and the block
// listings: an optional pc column, the mnemonic, register and index
// operands, and a trailing comment.
var RITE = lexers.Register(chroma.MustNewLexer(
	&chroma.Config{
		Name:      "RITE",
		Aliases:   []string{"rite", "mrb"},
		Filenames: []string{"*.mrbasm"},
	},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{Pattern: `;[^\n]*`, Type: chroma.Comment},
				{Pattern: `^\s*\d{3}(?=\s)`, Type: chroma.NameLabel},
				{Pattern: `OP_unknown\b`, Type: chroma.Error},
				{Pattern: `OP_[A-Z]+`, Type: chroma.Keyword},
				{Pattern: `\bR\d+\b`, Type: chroma.NameVariable},
				{Pattern: `:?I\(\d+\)`, Type: chroma.NameFunction},
				{Pattern: `L\(\d+\)`, Type: chroma.NameConstant},
				{Pattern: `:\d+`, Type: chroma.LiteralStringSymbol},
				{Pattern: `"(\\.|[^"\\])*"`, Type: chroma.LiteralString},
				{Pattern: `-?\d+`, Type: chroma.LiteralNumberInteger},
				{Pattern: `[():]`, Type: chroma.Punctuation},
				{Pattern: `\s+`, Type: chroma.TextWhitespace},
				{Pattern: `.`, Type: chroma.Text},
			},
		}
	},
))
