package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	require.NotNil(t, GetMarkdownRenderer(80))

	out := RenderMarkdown("# mrbdump\n\n| Field | Value |\n|---|---|\n| CRC | `0x1234` |\n", 80)
	assert.Contains(t, out, "mrbdump")
	assert.Contains(t, out, "0x1234")
}
