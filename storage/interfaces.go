package storage

import (
	"context"

	"github.com/poiesic/docintel/core"
)

// EmbeddingRepository persists document embeddings keyed by document id.
// Implementations must be thread-safe and support concurrent access.
type EmbeddingRepository interface {
	// PutEmbeddings stores or replaces one record per DocID.
	// Sets UpdatedAt if not already set.
	PutEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) error

	// GetEmbeddings retrieves records for ids.
	// Returns only the records that exist (no error for missing ids).
	GetEmbeddings(ctx context.Context, ids ...string) ([]*core.EmbeddingRecord, error)

	// GetEmbedding retrieves a single record.
	// Returns ErrNotFound if the record doesn't exist.
	GetEmbedding(ctx context.Context, id string) (*core.EmbeddingRecord, error)

	// DeleteEmbeddings removes records by document id.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteEmbeddings(ctx context.Context, ids ...string) error

	// FindSimilar returns stored documents whose vectors score at least
	// minSimilarity against vector, highest first, up to limit results.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]core.EmbeddingMatch, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
