package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parchment-labs/docask-cli/internal/core/domain"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driven"
	"github.com/parchment-labs/docask-cli/internal/core/ports/driving"
	"github.com/parchment-labs/docask-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Generation parameters for question answering. Low temperature keeps
// answers anchored to the retrieved context.
const (
	answerMaxTokens   = 512
	answerTemperature = 0.1

	// DefaultTopK is the number of chunks retrieved when the caller
	// does not specify one.
	DefaultTopK = 5
)

// qaPromptTemplate composes retrieved context and the user's question.
const qaPromptTemplate = `You are a helpful AI assistant for document question-answering.

Context:
%s

Question: %s

Provide a comprehensive and precise answer based on the given context.
If the context is insufficient, state that clearly.

Helpful Answer:`

// AnswerService runs the read path: embed, retrieve, generate.
type AnswerService struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	llm      driven.LLMService
	topK     int
}

// AnswerOption configures an AnswerService.
type AnswerOption func(*AnswerService)

// WithDefaultTopK overrides the default retrieval depth.
func WithDefaultTopK(k int) AnswerOption {
	return func(s *AnswerService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// NewAnswerService creates a new answer service. All three dependencies
// are required; answering degrades to nothing useful without them.
func NewAnswerService(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	llm driven.LLMService,
	opts ...AnswerOption,
) (*AnswerService, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedding service is required", domain.ErrInvalidInput)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: vector store is required", domain.ErrInvalidInput)
	}
	if llm == nil {
		return nil, fmt.Errorf("%w: llm service is required", domain.ErrInvalidInput)
	}

	s := &AnswerService{
		embedder: embedder,
		store:    store,
		llm:      llm,
		topK:     DefaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Ask answers a free-text question from the indexed corpus.
func (s *AnswerService) Ask(ctx context.Context, question string, topK int) (*driving.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.topK
	}

	logger.Section("Answer")
	logger.Debug("question: %q, top_k: %d", question, topK)

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	sources, err := s.store.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}
	logger.Debug("retrieved %d chunks", len(sources))

	contextTexts := make([]string, len(sources))
	for i, src := range sources {
		contextTexts[i] = src.Text
	}

	prompt := fmt.Sprintf(qaPromptTemplate, strings.Join(contextTexts, "\n\n"), question)

	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrGeneration) {
			err = fmt.Errorf("%w: %w", domain.ErrGeneration, err)
		}
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &driving.Answer{
		Text:    text,
		Sources: sources,
	}, nil
}
