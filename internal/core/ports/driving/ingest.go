// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
)

// IngestService runs the write path: detect, extract, chunk, embed, store.
type IngestService interface {
	// Ingest processes one document given its filename and raw payload.
	// Any stage failure aborts this document only; previously ingested
	// documents are unaffected.
	Ingest(ctx context.Context, filename string, payload []byte) (*IngestReport, error)
}

// IngestReport summarises one successful ingestion.
type IngestReport struct {
	// Identity is the derived document identity used as the chunk id prefix.
	Identity string `json:"identity"`

	// Kind is the detected document category.
	Kind domain.Kind `json:"-"`

	// KindName is Kind's string form, for serialisation.
	KindName string `json:"kind"`

	// Chunks is the number of stored chunks. Zero means the document
	// yielded no text; nothing was stored.
	Chunks int `json:"chunks"`

	// Pages is the PDF page count, zero for other kinds.
	Pages int `json:"pages,omitempty"`

	// Tables is the number of tables recovered from a PDF, best-effort.
	Tables int `json:"tables,omitempty"`
}
