package domain

// RawDocument represents opaque bytes handed in at the ingestion boundary,
// together with the Kind assigned by content detection. It is transient and
// exists only for the duration of one ingestion call.
type RawDocument struct {
	// Name is the caller-supplied filename. It is untrusted and never used
	// for type detection, only for metadata and identity derivation.
	Name string

	// Kind is the detected document category.
	Kind Kind

	// Content is the raw byte payload.
	Content []byte
}

// Table is one extracted table: an ordered sequence of rows, each mapping
// column header to cell text.
type Table []map[string]string

// ExtractionResult is the output of a per-Kind extractor. It carries the full
// extracted text, the chunks derived from it, and kind-specific metadata.
//
// Invariant: TotalChunks == len(Chunks). Empty extracted text still runs
// through chunking and yields zero chunks; callers distinguish that from
// extraction failure by checking TotalChunks on a successful result.
type ExtractionResult struct {
	// Text is the full extracted text before chunking.
	Text string

	// Chunks are the overlapping segments produced from Text.
	Chunks []string

	// TotalChunks equals len(Chunks).
	TotalChunks int

	// Tables holds structured tables recovered from PDF pages.
	// Table recovery is best-effort; a failed pass leaves this empty.
	Tables []Table

	// Metadata contains kind-specific key-value pairs, e.g. page_count for
	// PDFs, format and mode for images. The dispatch registry stamps
	// filename and kind after a successful extraction.
	Metadata map[string]any
}

// SearchResult is the read-only projection returned by a vector store query.
// It is constructed per-query and never persisted.
type SearchResult struct {
	// Text is the stored chunk text.
	Text string `json:"text"`

	// Distance is the cosine distance to the query vector (lower is closer).
	Distance float64 `json:"distance"`

	// Metadata is the mapping stored alongside the chunk.
	Metadata map[string]any `json:"metadata"`
}
