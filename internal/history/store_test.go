package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecord(id string, finished time.Time) Record {
	return Record{
		ID:          id,
		FileName:    "book.docx",
		Model:       "command-r7b-arabiclatest",
		Phase:       "completed",
		TotalChunks: 4,
		ChunksDone:  4,
		StartedAt:   finished.Add(-time.Minute),
		FinishedAt:  finished,
	}
}

func TestStore_InsertAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, sampleRecord("a", base)))
	require.NoError(t, store.Insert(ctx, sampleRecord("b", base.Add(time.Hour))))

	recs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID, "newest finish first")
	assert.Equal(t, "a", recs[1].ID)
	assert.Equal(t, 4, recs[0].TotalChunks)
	assert.True(t, recs[0].FinishedAt.Equal(base.Add(time.Hour)))
}

func TestStore_InsertIsIdempotentPerID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := sampleRecord("a", base)
	require.NoError(t, store.Insert(ctx, rec))
	rec.Phase = "failed"
	rec.Error = "write output document: disk full"
	require.NoError(t, store.Insert(ctx, rec))

	recs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "failed", recs[0].Phase)
	assert.Equal(t, "write output document: disk full", recs[0].Error)
}

func TestStore_RecentLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Insert(ctx, sampleRecord(string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))))
	}

	recs, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "e", recs[0].ID)
}

func TestStore_Prune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, sampleRecord("old", base)))
	require.NoError(t, store.Insert(ctx, sampleRecord("new", base.Add(48*time.Hour))))

	n, err := store.Prune(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	recs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "new", recs[0].ID)
}

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore("  ")
	assert.Error(t, err)
}
