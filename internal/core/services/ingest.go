// Package services contains the application's core orchestration logic,
// wired together from the driven ports.
package services

import (
	"context"
	"fmt"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driving"
	"github.com/parchment-labs/docask-cli/internal/detector"
	"github.com/parchment-labs/docask-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DocumentProcessor dispatches a raw document to the extractor for its
// kind. Satisfied by the extractor registry.
type DocumentProcessor interface {
	Process(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error)
}

// IngestService runs the write path: detect, extract, chunk, embed, store.
type IngestService struct {
	processor DocumentProcessor
	embedder  driven.EmbeddingService
	store     driven.VectorStore
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	processor DocumentProcessor,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
) *IngestService {
	return &IngestService{
		processor: processor,
		embedder:  embedder,
		store:     store,
	}
}

// Ingest processes one document given its filename and raw payload.
// A failure at any stage aborts this document without touching the store.
func (s *IngestService) Ingest(ctx context.Context, filename string, payload []byte) (*driving.IngestReport, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is empty", domain.ErrInvalidInput)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: %s has no content", domain.ErrInvalidInput, filename)
	}

	logger.Section("Ingest " + filename)

	kind := detector.Detect(payload)
	identity := domain.Identity(filename, payload)
	logger.Debug("identity %s, kind %s", identity, kind)

	result, err := s.processor.Process(ctx, &domain.RawDocument{
		Name:    filename,
		Kind:    kind,
		Content: payload,
	})
	if err != nil {
		return nil, err
	}

	report := &driving.IngestReport{
		Identity: identity,
		Kind:     kind,
		KindName: kind.String(),
		Chunks:   result.TotalChunks,
		Tables:   len(result.Tables),
	}
	if pages, ok := result.Metadata["page_count"].(int); ok {
		report.Pages = pages
	}

	// A scanned page with no recognisable text is a valid document
	// that simply contributes nothing to the index.
	if result.TotalChunks == 0 {
		logger.Info("%s produced no text, nothing stored", filename)
		return report, nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, result.Chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding %s: %w", filename, err)
	}
	if len(vectors) != result.TotalChunks {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks",
			domain.ErrEmbedding, len(vectors), result.TotalChunks)
	}

	ids := make([]string, result.TotalChunks)
	metadatas := make([]map[string]any, result.TotalChunks)
	for i := range result.Chunks {
		ids[i] = domain.ChunkID(identity, i)

		metadata := make(map[string]any, len(result.Metadata)+2)
		for k, v := range result.Metadata {
			metadata[k] = v
		}
		metadata["chunk_index"] = i
		metadata["total_chunks"] = result.TotalChunks
		metadatas[i] = metadata
	}

	if err := s.store.Upsert(ctx, ids, vectors, result.Chunks, metadatas); err != nil {
		return nil, fmt.Errorf("storing %s: %w", filename, err)
	}

	logger.Info("stored %d chunks for %s", result.TotalChunks, identity)
	return report, nil
}
