// Package colorize highlights RITE disassembly with chroma.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
)

// EnvNoColor disables colouring when set to any non-empty value.
const EnvNoColor = "MRBDUMP_NO_COLOR"

// Enabled reports whether colouring is on.
func Enabled() bool {
	return os.Getenv(EnvNoColor) == ""
}

// getDisasmStyle returns the disassembly style with fallbacks
func getDisasmStyle() *chroma.Style {
	candidates := []string{"disasm-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Disasm highlights a multi-line listing.
func Disasm(code string) (string, error) {
	if !Enabled() {
		return code, nil
	}

	iterator, err := RITE.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getDisasmStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// Line highlights a single instruction line. On any failure the line is
// returned unchanged.
func Line(line string) string {
	out, err := Disasm(line)
	if err != nil {
		return line
	}
	// The lexer ensures a trailing newline; the caller owns line breaks.
	if !strings.HasSuffix(line, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}
