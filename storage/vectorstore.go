package storage

import (
	"context"
	"log/slog"

	"github.com/poiesic/docintel/ai"
)

// VectorStore adapts an EmbeddingRepository to ai.VectorStore.
type VectorStore struct {
	repo   EmbeddingRepository
	logger *slog.Logger
}

var _ ai.VectorStore = (*VectorStore)(nil)

// NewVectorStore wraps repo. A nil logger falls back to slog.Default().
func NewVectorStore(repo EmbeddingRepository, logger *slog.Logger) *VectorStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorStore{
		repo:   repo,
		logger: logger.With("component", "vector-store"),
	}
}

// GetEmbeddings returns the stored vectors for ids. Lookup failures are
// logged and reported as an empty map.
func (s *VectorStore) GetEmbeddings(ctx context.Context, ids []string) map[string][]float32 {
	out := make(map[string][]float32, len(ids))
	if len(ids) == 0 {
		return out
	}

	records, err := s.repo.GetEmbeddings(ctx, ids...)
	if err != nil {
		s.logger.Warn("embedding lookup failed", "documents", len(ids), "err", err)
		return map[string][]float32{}
	}
	for _, record := range records {
		out[record.DocID] = record.Vector
	}
	return out
}
