// Package chunker splits extracted text into overlapping fixed-size
// segments. Cut points prefer the largest separator (paragraph, then line,
// sentence, word) that still fits the size budget, falling back to a hard
// character cut when no separator is present.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default number of bytes per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping bytes between
// adjacent chunks.
const DefaultOverlap = 200

// DefaultSeparators is the cut-point priority order: paragraph break,
// line break, sentence end, word boundary. A hard cut is the implicit
// final fallback.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " "}

// Splitter is a deterministic, stateless text splitter. Calling Split
// twice with the same text yields identical output.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in bytes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithSeparators sets the separator priority order.
func WithSeparators(seps []string) Option {
	return func(s *Splitter) {
		if len(seps) > 0 {
			s.separators = seps
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave room for forward progress.
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split divides text into ordered, overlapping chunks. Empty text yields
// no chunks; text within the size budget yields exactly one chunk equal to
// the whole text. Every adjacent pair of chunks shares the configured
// overlap, widened to the nearest rune boundary so chunks never start
// mid-rune, except possibly around the final chunk.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= s.chunkSize {
		return []string{text}
	}

	estimated := len(text)/(s.chunkSize-s.overlap) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < len(text) {
		end := start + s.chunkSize
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}

		end = s.cut(text, start, end)
		chunks = append(chunks, text[start:end])

		next := end - s.overlap
		for next > start && !utf8.RuneStart(text[next]) {
			next--
		}
		if next <= start {
			// Chunk was no longer than the overlap; step past it
			// instead of looping.
			next = end
		}
		start = next
	}

	return chunks
}

// cut picks the actual end of the chunk starting at start, given the hard
// budget limit at end. The largest separator whose last occurrence leaves
// more than the overlap of fresh content wins; otherwise the hard cut is
// pulled back to a rune boundary.
func (s *Splitter) cut(text string, start, end int) int {
	window := text[start:end]
	for _, sep := range s.separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		boundary := idx + len(sep)
		if boundary > s.overlap {
			return start + boundary
		}
	}

	for end > start && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}
