package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DisasmDark is the style for RITE listings.
var DisasmDark = styles.Register(chroma.MustNewStyle("disasm-dark", chroma.StyleEntries{
	chroma.Text:       "#FFFFFF",
	chroma.Background: "bg:#1e1e1e",
	chroma.Comment:    "#6A9955", // resolved names, source positions
	chroma.Error:      "#FF5F5F",

	chroma.Keyword:      "#FFFFFF", // mnemonics
	chroma.NameVariable: "#7C9C9D", // registers
	chroma.NameLabel:    "#4F4F4F", // pc column
	chroma.NameFunction: "#FFD700", // child block references
	chroma.NameConstant: "#EACD53", // pool references

	chroma.LiteralNumber:        "#FF5F87",
	chroma.LiteralNumberInteger: "#FF5F87",
	chroma.LiteralStringSymbol:  "#C586C0",
	chroma.LiteralString:        "#EACD53",

	chroma.Punctuation: "#FFFFFF",
}))
