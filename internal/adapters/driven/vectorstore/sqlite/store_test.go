package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStoreCreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, store.Path())

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUpsertAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Upsert(ctx,
		[]string{"doc.txt-abc123_chunk_0", "doc.txt-abc123_chunk_1"},
		[][]float32{{1, 0, 0}, {0, 1, 0}},
		[]string{"first chunk", "second chunk"},
		[]map[string]any{
			{"filename": "doc.txt", "chunk_index": 0},
			{"filename": "doc.txt", "chunk_index": 1},
		},
	)
	require.NoError(t, err)

	results, err := store.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "first chunk", results[0].Text)
	assert.InDelta(t, 0.0, results[0].Distance, 1e-9)
	assert.Equal(t, "doc.txt", results[0].Metadata["filename"])
	assert.Equal(t, "second chunk", results[1].Text)
	assert.True(t, results[0].Distance <= results[1].Distance)
}

func TestUpsertReplacesDuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx,
		[]string{"a"}, [][]float32{{1, 0}}, []string{"old"}, []map[string]any{nil}))
	require.NoError(t, store.Upsert(ctx,
		[]string{"a"}, [][]float32{{1, 0}}, []string{"new"}, []map[string]any{nil}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := store.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Text)
}

func TestUpsertLengthMismatch(t *testing.T) {
	store := newTestStore(t)

	err := store.Upsert(context.Background(),
		[]string{"a", "b"},
		[][]float32{{1, 0}},
		[]string{"only"},
		[]map[string]any{nil},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestUpsertDimensionMismatchAcrossBatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx,
		[]string{"a"}, [][]float32{{1, 0, 0}}, []string{"three"}, []map[string]any{nil}))

	err := store.Upsert(ctx,
		[]string{"b"}, [][]float32{{1, 0}}, []string{"two"}, []map[string]any{nil})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestUpsertEmptyBatch(t *testing.T) {
	store := newTestStore(t)

	err := store.Upsert(context.Background(), nil, nil, nil, nil)
	require.NoError(t, err)
}

func TestQueryTiesFollowInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Parallel vectors give identical cosine distances.
	require.NoError(t, store.Upsert(ctx,
		[]string{"first", "second", "third"},
		[][]float32{{1, 0}, {2, 0}, {3, 0}},
		[]string{"first text", "second text", "third text"},
		[]map[string]any{nil, nil, nil},
	))

	results, err := store.Query(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first text", results[0].Text)
	assert.Equal(t, "second text", results[1].Text)
	assert.Equal(t, "third text", results[2].Text)
}

func TestQueryInvalidTopK(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Query(context.Background(), []float32{1, 0}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestQueryEmptyStore(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Query(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx,
		[]string{"a"}, [][]float32{{0.5, 0.5}}, []string{"persisted"}, []map[string]any{{"k": "v"}}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := reopened.Query(ctx, []float32{0.5, 0.5}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "persisted", results[0].Text)
	assert.Equal(t, "v", results[0].Metadata["k"])
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	vec := []float32{0.1, -2.5, 3.25, 0}

	blob := float32SliceToBytes(vec)
	assert.Len(t, blob, len(vec)*4)
	assert.Equal(t, vec, bytesToFloat32Slice(blob))

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
