package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrbdump/internal/loader"
	"mrbdump/internal/rite"
	"mrbdump/internal/rite/ritetest"
)

func program() ritetest.Irep {
	return ritetest.Irep{
		RecordSize: 60,
		NLocals:    1,
		NRegs:      3,
		ISeq: []uint32{
			ritetest.WordBx(2, 1, 0),
			ritetest.Word(32, 1, 0, 1),
			ritetest.Word(74, 0, 0, 0),
		},
		Pool:     []ritetest.Pool{{Type: 0, Value: "hi\n"}},
		Syms:     []string{"puts", ritetest.NullSym},
		Children: []ritetest.Irep{{ISeq: []uint32{ritetest.Word(41, 0, 0, 0)}}},
	}
}

func fullImage() []byte {
	b := new(ritetest.Builder).DefaultHeader().IrepSection("0003", program())
	b.Section(rite.TagLINE, 8+14+14).
		U32(14).U16(4).Raw("a.rb").U32(0).
		U32(14).U16(4).Raw("a.rb").U32(0)
	b.Section(rite.TagDBG, 0).U16(1).U16(4).Raw("a.rb")
	b.U32(6 + 11 + 6).U16(1).U32(0).U16(0).U32(3).U8(0).U16(1).U16(1).U16(2)
	b.U32(6 + 11 + 2).U16(1).U32(0).U16(0).U32(1).U8(0).U16(5)
	b.Section("XYZ\x00", 8)
	return b.End().Bytes()
}

func parse(t *testing.T, data []byte, sink rite.Sink) *rite.Dump {
	t.Helper()
	dump, err := rite.Parse(data, rite.Options{Sink: sink})
	require.NoError(t, err)
	return dump
}

func TestTextMinimal(t *testing.T) {
	data := new(ritetest.Builder).DefaultHeader().IrepSection("0003", ritetest.Irep{
		ISeq: []uint32{ritetest.Word(74, 0, 0, 0)},
		Pool: []ritetest.Pool{{Type: 0, Value: "hi"}},
		Syms: []string{"puts"},
	}).End().Bytes()

	var buf bytes.Buffer
	text := NewText(&buf)
	parse(t, data, text.Sink())
	require.NoError(t, text.Err())

	want := `Rite Binary Identifier: RITE
Rite Binary Version: "0003"
Rite Binary CRC: 0x1234
Rite Binary Size: 128
Rite Compiler Name: "MATZ"
Rite Compiler Version: "0000"

Section #1:
Section Identifier: IREP
Section Size: 0
IREP Rite Instruction Specification Version: 0003
IREP Record Size: 0
Number of Local Variables: 0
Number of Register Variables: 0
Number of Child IREPs: 0
  Number of Opcodes: 1
    OP_STOP
  Number of Pool Values: 1
    000: hi
  Number of Symbols: 1
    000: puts

Section #2:
Section Identifier: END
`
	assert.Equal(t, want, buf.String())
}

func TestTextSections(t *testing.T) {
	var buf bytes.Buffer
	text := NewText(&buf)
	text.Highlight = strings.ToLower
	parse(t, fullImage(), text.Sink())
	out := buf.String()

	for _, line := range []string{
		"    op_loadl\tr1\tl(0)\n",
		"    000: hi\\u000A\n",
		"    001: (null)\n",
		"  Lineno Record #1\n  Lineno Record Length: 14\n  Lineno Filename: a.rb\n(skip)\n",
		"  Number of Filenames: 1\n    a.rb\n",
		"  Debug Record Size: 23\n    filename: a.rb\n    lines:\n      0000 1\n      0001 1\n      0002 2\n",
		"      0000 5\n",
		"Section Identifier: XYZ\nSection Size: 8\n(warning: unknown section \"XYZ\" (size 8) at offset",
		"(unknown section)\n\nSection #5:\nSection Identifier: END\n",
	} {
		assert.Contains(t, out, line)
	}
}

func TestListing(t *testing.T) {
	dump := parse(t, fullImage(), nil)

	blocks := Blocks(dump)
	require.Len(t, blocks, 2)
	assert.Equal(t, "0", blocks[0].Path)
	assert.Equal(t, "0.0", blocks[1].Path)

	lines := Listing(dump.Program, true)
	require.Len(t, lines, 3)
	assert.Equal(t, "000  OP_LOADL\tR1\tL(0)\t; \"hi\\n\"  a.rb:1", lines[0].String())
	assert.Equal(t, "001  OP_SEND\tR1\t:0\t1\t; :puts  a.rb:1", lines[1].String())
	assert.Equal(t, "002  OP_STOP\t; a.rb:2", lines[2].String())

	plain := ListingText(dump.Program.Children[0], false)
	assert.Equal(t, "000  OP_RETURN\tR0 (0)\t; a.rb:5\n", plain)

	assert.Nil(t, Blocks(&rite.Dump{}))
}

func TestJSON(t *testing.T) {
	data := fullImage()
	img, err := loader.Decode(data, "dir/app.mrb", loader.Options{})
	require.NoError(t, err)
	dump := parse(t, img.Data, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewDocument(img, dump, true)))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "dir/app.mrb", doc.File)
	assert.Equal(t, img.Digest, doc.Digest)
	assert.Equal(t, "0x1234", doc.Header.CRC)
	assert.Equal(t, "0003", doc.RiteVersion)
	require.Len(t, doc.Sections, 5)
	assert.Equal(t, "DBG", doc.Sections[2].Tag)
	assert.Equal(t, []string{"a.rb"}, doc.Files)
	require.Len(t, doc.Warnings, 1)

	p := doc.Program
	require.NotNil(t, p)
	assert.Equal(t, "0", p.Path)
	require.Len(t, p.Instructions, 3)
	assert.Equal(t, "OP_SEND", p.Instructions[1].Opcode)
	assert.Equal(t, ":puts", p.Instructions[1].Resolved)
	assert.Equal(t, []PoolJSON{{Type: "string", Value: "hi\n"}}, p.Pool)
	require.Len(t, p.Symbols, 2)
	assert.Equal(t, "puts", *p.Symbols[0])
	assert.Nil(t, p.Symbols[1])
	require.Len(t, p.Children, 1)
	assert.Equal(t, "0.0", p.Children[0].Path)
	assert.Equal(t, []uint16{5}, p.Children[0].Debug[0].Lines)
}

func TestMarkdown(t *testing.T) {
	data := fullImage()
	img, err := loader.Decode(data, "dir/app.mrb", loader.Options{})
	require.NoError(t, err)
	dump := parse(t, img.Data, nil)

	md := Markdown(img, dump, true)
	for _, s := range []string{
		"# mrbdump",
		"; dir/\n; app.mrb\n",
		"| CRC | `0x1234` |",
		"| 3 | `DBG` |",
		"## Source Files",
		"## Warnings",
		"## IREP 0\n",
		"## IREP 0.0\n",
		";   000: string hi\\u000A",
		";   001: (null)",
		"001  OP_SEND\tR1\t:0\t1\t; :puts",
	} {
		assert.Contains(t, md, s)
	}
}

func TestEscapeUnprintable(t *testing.T) {
	assert.Equal(t, "plain", EscapeUnprintable("plain"))
	assert.Equal(t, "tab\\u0009", EscapeUnprintable("tab\t"))
	assert.Equal(t, "\\xFF", EscapeUnprintable("\xff"))
	assert.Equal(t, "héllo", EscapeUnprintable("héllo"))
	assert.Equal(t, "a�b", sanitizeForJSON("a\xffb"))
}
