package domain

import "errors"

// Stage errors label which pipeline stage failed. Every stage wraps its
// underlying cause with the matching sentinel so callers can branch with
// errors.Is while the cause stays visible in the message.
var (
	// ErrDetection indicates the input content could not be read for
	// classification. Unrecognised-but-readable content is not an error;
	// it classifies as KindText.
	ErrDetection = errors.New("document type detection failed")

	// ErrExtraction indicates a recognised kind could not yield text.
	ErrExtraction = errors.New("text extraction failed")

	// ErrUnsupportedType indicates the kind was recognised but no extractor
	// is registered for it.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrEmbedding indicates the embedding model invocation failed.
	// Embedding is all-or-nothing; no partial vectors are returned.
	ErrEmbedding = errors.New("embedding generation failed")

	// ErrStorage indicates a vector store write or read failed, including
	// argument-shape violations (length mismatch, non-positive top-k).
	ErrStorage = errors.New("vector store operation failed")

	// ErrGeneration indicates the language model call for answer
	// generation failed.
	ErrGeneration = errors.New("answer generation failed")

	// ErrInvalidInput indicates malformed or missing input.
	ErrInvalidInput = errors.New("invalid input")
)
