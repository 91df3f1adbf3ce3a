package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"mrbdump/internal/loader"
	"mrbdump/internal/rite"
)

// Summary renders the file, header and section overview of dump as
// markdown. img may be nil.
func Summary(img *loader.Image, dump *rite.Dump) string {
	var sb strings.Builder
	sb.WriteString("# mrbdump\n\n```\n")
	if img != nil {
		if dir := filepath.Dir(img.Path); dir != "." {
			fmt.Fprintf(&sb, "; %s/\n", dir)
		}
		var kinds []string
		if img.Encrypted {
			kinds = append(kinds, "xxtea")
		}
		if img.Compression != "" {
			kinds = append(kinds, img.Compression)
		}
		if len(kinds) > 0 {
			fmt.Fprintf(&sb, "; %s (%s)\n", filepath.Base(img.Path), strings.Join(kinds, ", "))
		} else {
			fmt.Fprintf(&sb, "; %s\n", filepath.Base(img.Path))
		}
		fmt.Fprintf(&sb, "; %s\n", img.Digest)
		fmt.Fprintf(&sb, "; %d bytes, image %d bytes\n", img.Size, len(img.Data))
	}
	if dump.Program != nil {
		fmt.Fprintf(&sb, "; %d code blocks\n", dump.Program.Count())
	}
	sb.WriteString("```\n\n")

	h := dump.Header
	sb.WriteString("## Header\n\n| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Identifier | `%s` |\n", EscapeUnprintable(h.Ident))
	fmt.Fprintf(&sb, "| Version | `%s` |\n", EscapeUnprintable(h.Version))
	fmt.Fprintf(&sb, "| CRC | `0x%x` |\n", h.CRC)
	fmt.Fprintf(&sb, "| Size | %d |\n", h.Size)
	fmt.Fprintf(&sb, "| Compiler | `%s` `%s` |\n", EscapeUnprintable(h.CompilerName), EscapeUnprintable(h.CompilerVersion))
	if dump.RiteVersion != "" {
		fmt.Fprintf(&sb, "| Instruction set | `%s` |\n", EscapeUnprintable(dump.RiteVersion))
	}

	sb.WriteString("\n## Sections\n\n| # | Tag | Size | Offset |\n|---|---|---|---|\n")
	for i, s := range dump.Sections {
		fmt.Fprintf(&sb, "| %d | `%s` | %d | 0x%x |\n", i+1, EscapeUnprintable(s.Name()), s.Size, s.Offset)
	}

	if len(dump.Files) > 0 {
		sb.WriteString("\n## Source Files\n\n")
		for _, f := range dump.Files {
			fmt.Fprintf(&sb, "- `%s`\n", EscapeUnprintable(f))
		}
	}

	if len(dump.Warnings) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, w := range dump.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}
	return sb.String()
}

// BlockMarkdown renders one block: its counters, tables and listing.
func BlockMarkdown(b Block, resolve bool) string {
	cb := b.Block
	var sb strings.Builder
	fmt.Fprintf(&sb, "## IREP %s\n\n", b.Path)
	fmt.Fprintf(&sb, "%d locals, %d registers, %d instructions, %d children\n\n",
		cb.NLocals, cb.NRegs, len(cb.ISeq), len(cb.Children))

	sb.WriteString("```\n")
	if len(cb.Pool) > 0 {
		sb.WriteString("; pool\n")
		for i, p := range cb.Pool {
			fmt.Fprintf(&sb, ";   %03d: %s %s\n", i, p.Type, EscapeUnprintable(p.Value))
		}
	}
	if len(cb.Syms) > 0 {
		sb.WriteString("; symbols\n")
		for i, s := range cb.Syms {
			fmt.Fprintf(&sb, ";   %03d: %s\n", i, EscapeUnprintable(s.String()))
		}
	}
	sb.WriteString(ListingText(cb, resolve))
	sb.WriteString("```\n")
	return sb.String()
}

// Markdown renders the full report.
func Markdown(img *loader.Image, dump *rite.Dump, resolve bool) string {
	var sb strings.Builder
	sb.WriteString(Summary(img, dump))
	for _, b := range Blocks(dump) {
		sb.WriteString("\n")
		sb.WriteString(BlockMarkdown(b, resolve))
	}
	return sb.String()
}
