package driving

import (
	"context"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
)

// AnswerService runs the read path: embed the question, retrieve the
// nearest chunks, and compose them with the question into a generated
// answer.
type AnswerService interface {
	// Ask answers a free-text question. topK <= 0 selects the configured
	// default. A language model failure propagates a structured error
	// wrapping domain.ErrGeneration; the transport layer decides the
	// user-facing message.
	Ask(ctx context.Context, question string, topK int) (*Answer, error)
}

// Answer is the generated answer plus its supporting chunks.
type Answer struct {
	// Text is the raw generated answer.
	Text string `json:"answer"`

	// Sources are the retrieved chunks, in retrieval order.
	Sources []domain.SearchResult `json:"sources"`
}
