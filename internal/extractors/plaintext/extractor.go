// Package plaintext extracts UTF-8 text documents.
package plaintext

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/parchment-labs/docask-cli/internal/chunker"
	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads the payload as UTF-8 text. A payload that is not valid
// UTF-8 is fatal to the extraction; there is no lossy re-decoding.
type Extractor struct {
	splitter *chunker.Splitter
}

// New creates a plain text extractor.
func New(splitter *chunker.Splitter) *Extractor {
	return &Extractor{splitter: splitter}
}

// Kinds returns the document kinds this extractor handles.
func (e *Extractor) Kinds() []domain.Kind {
	return []domain.Kind{domain.KindText}
}

// Extract decodes the payload and chunks it.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	if !utf8.Valid(raw.Content) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", domain.ErrExtraction)
	}

	text := string(raw.Content)
	chunks := e.splitter.Split(text)

	return &domain.ExtractionResult{
		Text:        text,
		Chunks:      chunks,
		TotalChunks: len(chunks),
		Metadata:    make(map[string]any),
	}, nil
}
