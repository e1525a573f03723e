package extractors

import (
	"context"
	"fmt"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
	"github.com/parchment-labs/docask-cli/internal/logger"
)

// Registry holds the fixed kind-to-extractor dispatch table. The table is
// total over the kinds the registered extractors declare; any other kind
// fails with domain.ErrUnsupportedType. KindSpreadsheet is deliberately
// left unregistered: it is detected so the failure names the real kind,
// but no extractor exists for it yet.
type Registry struct {
	byKind map[domain.Kind]driven.Extractor
}

// NewRegistry builds a registry from the given extractors, keyed by the
// kinds each one declares. Later registrations win on conflict.
func NewRegistry(exts ...driven.Extractor) *Registry {
	byKind := make(map[domain.Kind]driven.Extractor)
	for _, ext := range exts {
		for _, kind := range ext.Kinds() {
			byKind[kind] = ext
		}
	}
	return &Registry{byKind: byKind}
}

// Kinds returns the kinds with a registered extractor.
func (r *Registry) Kinds() []domain.Kind {
	kinds := make([]domain.Kind, 0, len(r.byKind))
	for kind := range r.byKind {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Process dispatches the raw document to the extractor for its kind and
// stamps filename and kind metadata on the successful result.
func (r *Registry) Process(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	ext, ok := r.byKind[raw.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, raw.Kind)
	}

	logger.Debug("extracting %q as %s", raw.Name, raw.Kind)
	result, err := ext.Extract(ctx, raw)
	if err != nil {
		logger.Warn("extraction of %q failed: %v", raw.Name, err)
		return nil, err
	}

	if result.Metadata == nil {
		result.Metadata = make(map[string]any)
	}
	result.Metadata["filename"] = raw.Name
	result.Metadata["file_type"] = raw.Kind.String()

	logger.Debug("extracted %q: %d chars, %d chunks", raw.Name, len(result.Text), result.TotalChunks)
	return result, nil
}
