package driven

import (
	"context"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
)

// VectorStore persists (id, vector, text, metadata) tuples and answers
// nearest-neighbour queries under cosine distance.
type VectorStore interface {
	// Upsert writes records from four parallel sequences. All four must
	// have equal length or the call fails with domain.ErrStorage. A
	// duplicate id overwrites the prior record (replace semantics).
	Upsert(ctx context.Context, ids []string, vectors [][]float32, texts []string, metadatas []map[string]any) error

	// Query returns up to topK results sorted by ascending cosine
	// distance, ties broken by insertion order. An empty store yields an
	// empty slice. topK <= 0 fails with domain.ErrStorage.
	Query(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error)

	// Count reports the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
