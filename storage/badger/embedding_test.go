package badger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *EmbeddingRepository {
	t.Helper()
	repo, backend, err := NewMemoryEmbeddingRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestEmbeddingRepository_PutGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	stamped := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []*core.EmbeddingRecord{
		{DocID: "confluence:Build setup", Vector: []float32{1, 0}, Model: "nomic"},
		{DocID: "git:README", Vector: []float32{0, 1}, Model: "nomic", UpdatedAt: stamped},
	}
	require.NoError(t, repo.PutEmbeddings(ctx, records...))

	assert.False(t, records[0].UpdatedAt.IsZero())
	assert.Equal(t, stamped, records[1].UpdatedAt)

	got, err := repo.GetEmbedding(ctx, "git:README")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, got.Vector)
	assert.Equal(t, "nomic", got.Model)
	assert.True(t, stamped.Equal(got.UpdatedAt))

	batch, err := repo.GetEmbeddings(ctx, "confluence:Build setup", "missing", "git:README")
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, "confluence:Build setup", batch[0].DocID)
	assert.Equal(t, "git:README", batch[1].DocID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEmbeddingRepository_PutReplaces(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.PutEmbeddings(ctx, &core.EmbeddingRecord{DocID: "a", Vector: []float32{1, 0}}))
	require.NoError(t, repo.PutEmbeddings(ctx, &core.EmbeddingRecord{DocID: "a", Vector: []float32{0, 1}, Model: "v2"}))

	got, err := repo.GetEmbedding(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, got.Vector)
	assert.Equal(t, "v2", got.Model)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEmbeddingRepository_PutInvalid(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		record *core.EmbeddingRecord
	}{
		{"nil record", nil},
		{"missing id", &core.EmbeddingRecord{Vector: []float32{1}}},
		{"empty vector", &core.EmbeddingRecord{DocID: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.PutEmbeddings(ctx, &core.EmbeddingRecord{DocID: "ok", Vector: []float32{1}}, tt.record)
			assert.ErrorIs(t, err, core.ErrInvalidEmbedding)
		})
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "a rejected batch writes nothing")
}

func TestEmbeddingRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.GetEmbedding(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = repo.DeleteEmbeddings(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEmbeddingRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.PutEmbeddings(ctx,
		&core.EmbeddingRecord{DocID: "a", Vector: []float32{1}},
		&core.EmbeddingRecord{DocID: "b", Vector: []float32{1}},
	))
	require.NoError(t, repo.DeleteEmbeddings(ctx, "a"))

	_, err := repo.GetEmbedding(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEmbeddingRepository_FindSimilar(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.PutEmbeddings(ctx,
		&core.EmbeddingRecord{DocID: "same", Vector: []float32{1, 0}},
		&core.EmbeddingRecord{DocID: "scaled", Vector: []float32{2, 0}},
		&core.EmbeddingRecord{DocID: "diagonal", Vector: []float32{0.6, 0.8}},
		&core.EmbeddingRecord{DocID: "orthogonal", Vector: []float32{0, 1}},
		&core.EmbeddingRecord{DocID: "other-dims", Vector: []float32{1, 0, 0}},
	))

	t.Run("threshold and order", func(t *testing.T) {
		results, err := repo.FindSimilar(ctx, []float32{1, 0}, 0.5, 10)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "same", results[0].DocID)
		assert.Equal(t, "scaled", results[1].DocID)
		assert.Equal(t, "diagonal", results[2].DocID)
		assert.InDelta(t, 1.0, results[0].Score, 1e-6)
		assert.InDelta(t, 0.6, results[2].Score, 1e-6)
	})

	t.Run("limit", func(t *testing.T) {
		results, err := repo.FindSimilar(ctx, []float32{1, 0}, 0, 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("invalid query", func(t *testing.T) {
		_, err := repo.FindSimilar(ctx, nil, 0, 5)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)

		_, err = repo.FindSimilar(ctx, []float32{0, 0}, 0, 5)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)

		_, err = repo.FindSimilar(ctx, []float32{1, 0}, 0, 0)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})
}

func TestEmbeddingRepository_LargeBatch(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	records := make([]*core.EmbeddingRecord, 500)
	for i := range records {
		records[i] = &core.EmbeddingRecord{
			DocID:  fmt.Sprintf("doc-%03d", i),
			Vector: make([]float32, 384),
		}
		records[i].Vector[i%384] = 1
	}
	require.NoError(t, repo.PutEmbeddings(ctx, records...))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 500, count)
}

func TestEmbeddingRepository_VectorStore(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.PutEmbeddings(ctx, &core.EmbeddingRecord{DocID: "a", Vector: []float32{0.6, 0.8}}))

	store := storage.NewVectorStore(repo, nil)
	got := store.GetEmbeddings(ctx, []string{"a", "b"})
	assert.Equal(t, map[string][]float32{"a": {0.6, 0.8}}, got)
}
