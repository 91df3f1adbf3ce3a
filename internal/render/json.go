package render

import (
	"encoding/json"
	"fmt"
	"io"

	"mrbdump/internal/loader"
	"mrbdump/internal/rite"
)

// Document is the JSON form of a decoded image.
type Document struct {
	File        string        `json:"file"`
	Digest      string        `json:"digest"`
	Size        int           `json:"size"`
	Encrypted   bool          `json:"encrypted,omitempty"`
	Compression string        `json:"compression,omitempty"`
	Header      HeaderJSON    `json:"header"`
	RiteVersion string        `json:"rite_version"`
	Sections    []SectionJSON `json:"sections"`
	Files       []string      `json:"files,omitempty"`
	Program     *BlockJSON    `json:"program,omitempty"`
	Warnings    []string      `json:"warnings,omitempty"`
}

// HeaderJSON mirrors rite.Header.
type HeaderJSON struct {
	Ident           string `json:"ident"`
	Version         string `json:"version"`
	CRC             string `json:"crc"`
	Size            uint32 `json:"size"`
	CompilerName    string `json:"compiler_name"`
	CompilerVersion string `json:"compiler_version"`
}

// SectionJSON mirrors rite.Section.
type SectionJSON struct {
	Tag    string `json:"tag"`
	Size   uint32 `json:"size"`
	Offset int    `json:"offset"`
}

// BlockJSON is one code block.
type BlockJSON struct {
	Path         string            `json:"path"`
	Offset       int               `json:"offset"`
	RecordSize   uint32            `json:"record_size"`
	NLocals      uint16            `json:"nlocals"`
	NRegs        uint16            `json:"nregs"`
	Instructions []InstructionJSON `json:"instructions"`
	Pool         []PoolJSON        `json:"pool"`
	Symbols      []*string         `json:"symbols"` // null for unnamed slots
	Debug        []AssocJSON       `json:"debug,omitempty"`
	Children     []*BlockJSON      `json:"children,omitempty"`
}

// InstructionJSON is one decoded instruction.
type InstructionJSON struct {
	PC       int    `json:"pc"`
	Word     string `json:"word"`
	Opcode   string `json:"opcode"`
	Text     string `json:"text"`
	Resolved string `json:"resolved,omitempty"`
}

// PoolJSON is one literal.
type PoolJSON struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// AssocJSON is one debug file association.
type AssocJSON struct {
	Start    uint32      `json:"start"`
	Filename string      `json:"filename"`
	Type     string      `json:"type"`
	Lines    []uint16    `json:"lines,omitempty"`
	Map      []RangeJSON `json:"map,omitempty"`
}

// RangeJSON is one flat map entry.
type RangeJSON struct {
	Start uint32 `json:"start"`
	Line  uint16 `json:"line"`
}

// NewDocument builds the document of dump. img may be nil.
func NewDocument(img *loader.Image, dump *rite.Dump, resolve bool) *Document {
	doc := &Document{}
	if img != nil {
		doc.File = img.Path
		doc.Digest = img.Digest
		doc.Size = img.Size
		doc.Encrypted = img.Encrypted
		doc.Compression = img.Compression
	}
	h := dump.Header
	doc.Header = HeaderJSON{
		Ident:           sanitizeForJSON(h.Ident),
		Version:         sanitizeForJSON(h.Version),
		CRC:             fmt.Sprintf("0x%x", h.CRC),
		Size:            h.Size,
		CompilerName:    sanitizeForJSON(h.CompilerName),
		CompilerVersion: sanitizeForJSON(h.CompilerVersion),
	}
	doc.RiteVersion = sanitizeForJSON(dump.RiteVersion)
	for _, s := range dump.Sections {
		doc.Sections = append(doc.Sections, SectionJSON{Tag: sanitizeForJSON(s.Name()), Size: s.Size, Offset: s.Offset})
	}
	for _, f := range dump.Files {
		doc.Files = append(doc.Files, sanitizeForJSON(f))
	}
	for _, w := range dump.Warnings {
		doc.Warnings = append(doc.Warnings, w.Error())
	}
	if dump.Program != nil {
		doc.Program = blockJSON(dump.Program, "0", resolve)
	}
	return doc
}

func blockJSON(b *rite.CodeBlock, path string, resolve bool) *BlockJSON {
	out := &BlockJSON{
		Path:         path,
		Offset:       b.Offset,
		RecordSize:   b.RecordSize,
		NLocals:      b.NLocals,
		NRegs:        b.NRegs,
		Instructions: make([]InstructionJSON, 0, len(b.ISeq)),
		Pool:         make([]PoolJSON, 0, len(b.Pool)),
		Symbols:      make([]*string, 0, len(b.Syms)),
	}
	for _, in := range b.Instructions() {
		ij := InstructionJSON{
			PC:     in.PC,
			Word:   fmt.Sprintf("%08x", in.Word),
			Opcode: in.Op.String(),
			Text:   in.Text,
		}
		if resolve {
			if name, ok := b.Resolve(in); ok {
				ij.Resolved = sanitizeForJSON(name)
			}
		}
		out.Instructions = append(out.Instructions, ij)
	}
	for _, p := range b.Pool {
		out.Pool = append(out.Pool, PoolJSON{Type: p.Type.String(), Value: sanitizeForJSON(p.Value)})
	}
	for _, s := range b.Syms {
		if s.Null {
			out.Symbols = append(out.Symbols, nil)
			continue
		}
		name := sanitizeForJSON(s.Name)
		out.Symbols = append(out.Symbols, &name)
	}
	if b.Debug != nil {
		for _, f := range b.Debug.Files {
			a := AssocJSON{Start: f.Start, Filename: sanitizeForJSON(f.Filename), Type: f.Type.String(), Lines: f.Lines}
			for _, m := range f.Map {
				a.Map = append(a.Map, RangeJSON{Start: m.Start, Line: m.Line})
			}
			out.Debug = append(out.Debug, a)
		}
	}
	for _, c := range b.Children {
		out.Children = append(out.Children, blockJSON(c, fmt.Sprintf("%s.%d", path, c.Index), resolve))
	}
	return out
}

// WriteJSON writes the indented document.
func WriteJSON(w io.Writer, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
