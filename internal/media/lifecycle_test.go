package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	category, filename := ParseRef("/api/images/works/123-abc.jpg", "thoughts")
	assert.Equal(t, "works", category)
	assert.Equal(t, "123-abc.jpg", filename)

	category, filename = ParseRef("/static/uploads/analytics/q1.pdf", "thoughts")
	assert.Equal(t, "analytics", category)
	assert.Equal(t, "q1.pdf", filename)

	// Short references fall back to the default category.
	category, filename = ParseRef("orphan.jpg", "thoughts")
	assert.Equal(t, "thoughts", category)
	assert.Equal(t, "orphan.jpg", filename)
}

func TestCleanupRemovesFiles(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "works")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	target := filepath.Join(dir, "a.jpg")
	require.NoError(t, os.WriteFile(target, []byte("img"), 0o644))

	results := Cleanup(root, "thoughts", "/api/images/works/a.jpg")
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanupMissingFileSucceeds(t *testing.T) {
	results := Cleanup(t.TempDir(), "thoughts", "/api/images/thoughts/already-gone.jpg")
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestCleanupSkipsEmptyRefs(t *testing.T) {
	results := Cleanup(t.TempDir(), "thoughts", "", "")
	assert.Empty(t, results)
}

func TestOrphans(t *testing.T) {
	old := []string{"a.jpg", "b.jpg"}
	updated := []string{"b.jpg", "c.jpg"}

	assert.Equal(t, []string{"a.jpg"}, Orphans(old, updated))
	assert.Nil(t, Orphans(old, old))
	assert.Equal(t, old, Orphans(old, nil))
}
