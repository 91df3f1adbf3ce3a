package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EscapeUnprintable returns a string where printable Unicode runes are preserved.
// Control and unprintable runes are escaped as \uXXXX. Invalid UTF-8 is escaped as \xXX.
func EscapeUnprintable(s string) string {
	var sb strings.Builder
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&sb, "\\x%02X", s[0])
		} else if unicode.IsPrint(r) {
			sb.WriteRune(r)
		} else {
			fmt.Fprintf(&sb, "\\u%04X", r)
		}
		s = s[size:]
	}
	return sb.String()
}

// sanitizeForJSON cleans a string to be valid UTF-8 and safe for JSON encoding
func sanitizeForJSON(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}
