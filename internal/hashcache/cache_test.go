package hashcache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFile_StableAndContentSensitive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	h1, err := HashFile(path)
	require.NoError(t, err)
	h2, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	// Same path, new content: the hash must change.
	require.NoError(t, os.WriteFile(path, []byte("hello v2"), 0o644))
	h3, err := HashFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestHashFile_MissingFile(t *testing.T) {
	_, err := HashFile(filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
}

func TestCache_SeenAndRecord(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), ".hashes.txt"))

	seen, err := c.Seen("abc123")
	require.NoError(t, err)
	assert.False(t, seen, "empty cache must not report anything as seen")

	require.NoError(t, c.Record("abc123"))
	seen, err = c.Seen("abc123")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = c.Seen("def456")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestCache_AppendOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hashes.txt")
	c := New(path)

	require.NoError(t, c.Record("aaa"))
	require.NoError(t, c.Record("bbb"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "aaa\nbbb\n", string(b))

	set, err := c.Load()
	require.NoError(t, err)
	assert.Len(t, set, 2)
}

func TestCache_LoadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hashes.txt")
	require.NoError(t, os.WriteFile(path, []byte("aaa\n\n  \nbbb\n"), 0o644))

	set, err := New(path).Load()
	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.Contains(t, set, "aaa")
	assert.Contains(t, set, "bbb")
}
