// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
)

// Extractor turns raw document bytes of specific kinds into text and
// kind-specific metadata. Implementations never let an unlabelled error
// cross the boundary: every failure wraps domain.ErrExtraction.
type Extractor interface {
	// Kinds returns the document kinds this extractor handles.
	Kinds() []domain.Kind

	// Extract produces the text, chunks and metadata for a raw document.
	// An empty text payload is a valid result, not an error.
	Extract(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractionResult, error)
}

// CommandRunner executes an external tool, feeding it stdin and returning
// its stdout. Extraction backends (pdftotext, tesseract) go through this
// so tests can run without the binaries installed.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, error)
}
