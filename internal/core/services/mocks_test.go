package services

import (
	"context"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
)

// mockProcessor returns a canned extraction result or error.
type mockProcessor struct {
	result  *domain.ExtractionResult
	err     error
	lastRaw *domain.RawDocument
}

func (m *mockProcessor) Process(_ context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	m.lastRaw = raw
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockEmbedder produces deterministic vectors, one per text.
type mockEmbedder struct {
	err       error
	dims      int
	lastTexts []string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastTexts = texts
	dims := m.dims
	if dims == 0 {
		dims = 3
	}
	vecs := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, dims)
		vec[0] = float32(i + 1)
		vecs[i] = vec
	}
	return vecs, nil
}

func (m *mockEmbedder) Dimensions() int             { return m.dims }
func (m *mockEmbedder) ModelName() string           { return "mock-embed" }
func (m *mockEmbedder) Ping(context.Context) error  { return nil }
func (m *mockEmbedder) Close() error                { return nil }

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

// mockStore records upserts and serves canned query results.
type mockStore struct {
	upsertErr error
	queryErr  error
	results   []domain.SearchResult

	lastIDs       []string
	lastVectors   [][]float32
	lastTexts     []string
	lastMetadatas []map[string]any
	lastTopK      int
}

func (m *mockStore) Upsert(_ context.Context, ids []string, vectors [][]float32, texts []string, metadatas []map[string]any) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.lastIDs = ids
	m.lastVectors = vectors
	m.lastTexts = texts
	m.lastMetadatas = metadatas
	return nil
}

func (m *mockStore) Query(_ context.Context, _ []float32, topK int) ([]domain.SearchResult, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	m.lastTopK = topK
	return m.results, nil
}

func (m *mockStore) Count(context.Context) (int, error) { return len(m.lastIDs), nil }
func (m *mockStore) Close() error                       { return nil }

var _ driven.VectorStore = (*mockStore)(nil)

// mockLLM returns a canned completion and records the prompt.
type mockLLM struct {
	response   string
	err        error
	lastPrompt string
	lastOpts   driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLM) ModelName() string          { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

var _ driven.LLMService = (*mockLLM)(nil)
