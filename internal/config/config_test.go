package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
debug = true
strict = true
max-depth = 16
resolve = true
no-color = true
key = "secret"
signature = "XXTEA"
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.Debug)
	assert.True(t, c.Strict)
	assert.Equal(t, 16, c.MaxDepth)
	assert.True(t, c.Resolve)
	assert.True(t, c.NoColor)
	assert.Equal(t, "secret", c.Key)
	assert.Equal(t, "XXTEA", c.Signature)
	assert.Equal(t, path, c.Path)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorContains(t, err, "cannot read")

	bad := writeConfig(t, dir, "debug = [")
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse error")

	neg := writeConfig(t, dir, "max-depth = -1")
	_, err = Load(neg)
	assert.ErrorContains(t, err, "max-depth")
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `strict = true`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	c, err := FindAndLoad(nested)
	require.NoError(t, err)
	assert.True(t, c.Strict)
	assert.Equal(t, filepath.Join(root, FileName), c.Path)
}

func TestFindAndLoadNone(t *testing.T) {
	c, err := FindAndLoad(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Config{}, c)
}
