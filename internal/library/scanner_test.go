package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLibrary(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"book.docx", "notes.txt", "translated_x.docx", "skip.bin"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
	return dir
}

func TestScanner_ScanFiltersAndFlags(t *testing.T) {
	s := NewScanner(seedLibrary(t), WithCacheTTL(0))

	docs, err := s.Scan()
	require.NoError(t, err)
	require.Len(t, docs, 3)

	byName := map[string]Document{}
	for _, d := range docs {
		byName[d.Name] = d
	}
	assert.Contains(t, byName, "book.docx")
	assert.Contains(t, byName, "notes.txt")
	assert.NotContains(t, byName, "skip.bin")
	assert.NotContains(t, byName, "subdir")
	assert.True(t, byName["translated_x.docx"].Artifact)
	assert.False(t, byName["book.docx"].Artifact)
	assert.Equal(t, "docx", byName["book.docx"].Format)
}

func TestScanner_CacheServesRepeatScans(t *testing.T) {
	dir := seedLibrary(t)
	s := NewScanner(dir, WithCacheTTL(time.Minute))

	first, err := s.Scan()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.txt"), []byte("x"), 0o644))
	second, err := s.Scan()
	require.NoError(t, err)
	assert.Len(t, second, len(first), "cached result should not see the new file yet")
}

func TestScanner_Resolve(t *testing.T) {
	dir := seedLibrary(t)
	s := NewScanner(dir)

	path, ok := s.Resolve("book.docx")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "book.docx"), path)

	_, ok = s.Resolve("missing.docx")
	assert.False(t, ok)
	_, ok = s.Resolve("../book.docx")
	assert.False(t, ok)
	_, ok = s.Resolve("subdir")
	assert.False(t, ok)
}
