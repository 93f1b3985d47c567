package indexing

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInvalidConfig indicates an indexing Config failed validation.
	ErrInvalidConfig = errors.New("invalid indexing config")

	// ErrRepositoryRequired is returned when no embedding repository is supplied.
	ErrRepositoryRequired = errors.New("embedding repository is required")

	// ErrEmbedderRequired is returned when no embedder is supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmbeddingCountMismatch indicates the embedder returned the wrong number of vectors.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
