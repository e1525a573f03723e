// Package memory provides an in-memory vector store for tests and
// ephemeral use. It mirrors the SQLite backend's semantics: replace on
// duplicate id, cosine distance ordering, insertion-order tie-breaks.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/parchment-labs/docask-cli/internal/adapters/driven/vectorstore"
	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

type record struct {
	id       string
	vector   []float32
	text     string
	metadata map[string]any
	seq      int
}

// Store is a brute-force in-memory vector store.
type Store struct {
	mu        sync.RWMutex
	records   map[string]*record
	dimension int
	nextSeq   int
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{records: make(map[string]*record)}
}

// Upsert writes records from parallel slices, replacing duplicates by id.
func (s *Store) Upsert(_ context.Context, ids []string, vectors [][]float32, texts []string, metadatas []map[string]any) error {
	if len(ids) != len(vectors) || len(ids) != len(texts) || len(ids) != len(metadatas) {
		return fmt.Errorf("%w: length mismatch: ids=%d vectors=%d texts=%d metadatas=%d",
			domain.ErrStorage, len(ids), len(vectors), len(texts), len(metadatas))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before committing the store dimension, so
	// a rejected upsert leaves an empty store unconstrained.
	dimension := s.dimension
	for i, vec := range vectors {
		if dimension == 0 {
			dimension = len(vec)
		} else if len(vec) != dimension {
			return fmt.Errorf("%w: vector %d has dimension %d, store holds %d",
				domain.ErrStorage, i, len(vec), dimension)
		}
	}
	s.dimension = dimension

	for i, id := range ids {
		seq := s.nextSeq
		if prior, ok := s.records[id]; ok {
			seq = prior.seq
		} else {
			s.nextSeq++
		}
		s.records[id] = &record{
			id:       id,
			vector:   vectors[i],
			text:     texts[i],
			metadata: metadatas[i],
			seq:      seq,
		}
	}

	return nil
}

// Query returns up to topK nearest records by cosine distance.
func (s *Store) Query(_ context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrStorage, topK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		rec      *record
		distance float64
	}

	hits := make([]scored, 0, len(s.records))
	for _, rec := range s.records {
		hits = append(hits, scored{rec: rec, distance: vectorstore.CosineDistance(vector, rec.vector)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		return hits[i].rec.seq < hits[j].rec.seq
	})

	if topK > len(hits) {
		topK = len(hits)
	}

	results := make([]domain.SearchResult, 0, topK)
	for _, h := range hits[:topK] {
		results = append(results, domain.SearchResult{
			Text:     h.rec.text,
			Distance: h.distance,
			Metadata: h.rec.metadata,
		})
	}

	return results, nil
}

// Count reports the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
