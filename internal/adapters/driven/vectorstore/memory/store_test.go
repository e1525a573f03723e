package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
)

func TestUpsertAndCount(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	err := store.Upsert(ctx,
		[]string{"a", "b"},
		[][]float32{{1, 0}, {0, 1}},
		[]string{"first", "second"},
		[]map[string]any{{"n": 1}, {"n": 2}},
	)
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUpsertReplacesDuplicateID(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx,
		[]string{"a"}, [][]float32{{1, 0}}, []string{"old"}, []map[string]any{nil}))
	require.NoError(t, store.Upsert(ctx,
		[]string{"a"}, [][]float32{{0, 1}}, []string{"new"}, []map[string]any{nil}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := store.Query(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Text)
}

func TestUpsertLengthMismatch(t *testing.T) {
	store := NewStore()

	err := store.Upsert(context.Background(),
		[]string{"a", "b"},
		[][]float32{{1, 0}},
		[]string{"only one"},
		[]map[string]any{nil},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestUpsertDimensionMismatch(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx,
		[]string{"a"}, [][]float32{{1, 0, 0}}, []string{"three"}, []map[string]any{nil}))

	err := store.Upsert(ctx,
		[]string{"b"}, [][]float32{{1, 0}}, []string{"two"}, []map[string]any{nil})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestUpsertRejectedBatchLeavesDimensionUnset(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	// Mixed dimensions in one batch against an empty store: nothing is
	// written and the store must not latch onto the first vector's size.
	err := store.Upsert(ctx,
		[]string{"a", "b"},
		[][]float32{{1, 0, 0}, {1, 0}},
		[]string{"three", "two"},
		[]map[string]any{nil, nil},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, store.Upsert(ctx,
		[]string{"c"}, [][]float32{{1, 0}}, []string{"two"}, []map[string]any{nil}))
}

func TestQueryOrdersByDistance(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx,
		[]string{"far", "near", "mid"},
		[][]float32{{-1, 0}, {1, 0}, {0, 1}},
		[]string{"far text", "near text", "mid text"},
		[]map[string]any{nil, nil, nil},
	))

	results, err := store.Query(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "near text", results[0].Text)
	assert.Equal(t, "mid text", results[1].Text)
	assert.Equal(t, "far text", results[2].Text)
	assert.True(t, results[0].Distance <= results[1].Distance)
	assert.True(t, results[1].Distance <= results[2].Distance)
}

func TestQueryTiesFollowInsertionOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	// All three vectors point the same way, so all distances tie.
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

func TestQueryTopKLargerThanStore(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx,
		[]string{"a"}, [][]float32{{1, 0}}, []string{"only"}, []map[string]any{nil}))

	results, err := store.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestQueryEmptyStore(t *testing.T) {
	store := NewStore()

	results, err := store.Query(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQueryInvalidTopK(t *testing.T) {
	store := NewStore()

	_, err := store.Query(context.Background(), []float32{1, 0}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
}
