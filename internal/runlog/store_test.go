package runlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neatlite/neat"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "run-a", neat.GenerationStats{Generation: 2, Best: 3.5, Mean: 1.25, Stdev: 0.5, Species: 4, Nodes: 12, Innovations: 20}))
	require.NoError(t, store.Record(ctx, "run-a", neat.GenerationStats{Generation: 1, Best: 2, Mean: 1, Species: 3, Nodes: 10, Innovations: 15}))
	require.NoError(t, store.Record(ctx, "run-b", neat.GenerationStats{Generation: 1, Best: 9}))

	// Recording a generation again replaces it.
	require.NoError(t, store.Record(ctx, "run-a", neat.GenerationStats{Generation: 1, Best: 2.5, Mean: 1, Species: 3, Nodes: 10, Innovations: 15}))

	got, err := store.List(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Generation)
	assert.Equal(t, 2.5, got[0].Best)
	assert.Equal(t, neat.GenerationStats{Generation: 2, Best: 3.5, Mean: 1.25, Stdev: 0.5, Species: 4, Nodes: 12, Innovations: 20}, got[1])

	got, err = store.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	require.ErrorIs(t, store.Record(context.Background(), "run", neat.GenerationStats{}), errNotInitialized)

	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))

	_, err := store.List(ctx, "run")
	require.ErrorIs(t, err, errNotInitialized)

	require.NoError(t, store.Init(ctx))
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	assert.Error(t, NewSQLiteStore("").Init(context.Background()))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	mem, err := Open(ctx, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, mem)
	require.NoError(t, mem.Close())

	db, err := Open(ctx, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, db)
	require.NoError(t, db.Close())
}
