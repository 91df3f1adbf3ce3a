package colorize

import (
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokens(t *testing.T, s string) map[chroma.TokenType][]string {
	t.Helper()
	it, err := RITE.Tokenise(nil, s)
	require.NoError(t, err)
	out := make(map[chroma.TokenType][]string)
	for _, tok := range it.Tokens() {
		out[tok.Type] = append(out[tok.Type], tok.Value)
	}
	return out
}

func TestLexerRegistered(t *testing.T) {
	assert.NotNil(t, lexers.Get("rite"))
	assert.NotNil(t, lexers.Get("mrb"))
}

func TestLexerTokens(t *testing.T) {
	toks := tokens(t, "OP_SEND\tR1\t:2\t1\t; :puts")
	assert.Equal(t, []string{"OP_SEND"}, toks[chroma.Keyword])
	assert.Equal(t, []string{"R1"}, toks[chroma.NameVariable])
	assert.Equal(t, []string{":2"}, toks[chroma.LiteralStringSymbol])
	assert.Equal(t, []string{"1"}, toks[chroma.LiteralNumberInteger])
	assert.Equal(t, []string{"; :puts"}, toks[chroma.Comment])

	toks = tokens(t, "OP_LAMBDA\tR1\tI(2)\t1")
	assert.Equal(t, []string{"I(2)"}, toks[chroma.NameFunction])

	toks = tokens(t, "OP_LOADL\tR1\tL(0)")
	assert.Equal(t, []string{"L(0)"}, toks[chroma.NameConstant])

	toks = tokens(t, "OP_unknown 100\t1\t2\t3")
	assert.Equal(t, []string{"OP_unknown"}, toks[chroma.Error])
}

func TestDisabled(t *testing.T) {
	t.Setenv(EnvNoColor, "1")
	assert.False(t, Enabled())
	assert.Equal(t, "OP_NOP", Line("OP_NOP"))
	out, err := Disasm("OP_NOP\n")
	require.NoError(t, err)
	assert.Equal(t, "OP_NOP\n", out)
}

func TestLineKeepsText(t *testing.T) {
	t.Setenv(EnvNoColor, "")
	in := "OP_MOVE\tR3\tR5"
	out := Line(in)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "OP_MOVE")
	assert.False(t, strings.HasSuffix(out, "\n"))
}
