package docintel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/docintel/ai"
	"github.com/poiesic/docintel/ai/mock"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/engine"
	"github.com/poiesic/docintel/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("create new workspace", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "workspace")
		ws, err := Open(dir)
		require.NoError(t, err)
		require.NotNil(t, ws)
		defer ws.Close()

		assert.NotNil(t, ws.Engine())
		assert.NotNil(t, ws.Repository())
		assert.Nil(t, ws.provider)
	})

	t.Run("error with file path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(path, []byte("test"), 0644))

		ws, err := Open(path)
		assert.Error(t, err)
		assert.Nil(t, ws)
	})

	t.Run("invalid engine config", func(t *testing.T) {
		ws, err := Open("", WithInMemory(), WithEngineConfig(engine.NewConfig(engine.WithMaxPairsTotal(0))))
		assert.ErrorIs(t, err, engine.ErrInvalidConfig)
		assert.Nil(t, ws)
	})

	t.Run("invalid ai config", func(t *testing.T) {
		ws, err := Open("", WithInMemory(), WithAIConfig(ai.NewConfig(ai.WithEmbeddingModel(""))))
		assert.Error(t, err)
		assert.Nil(t, ws)
	})
}

func TestWorkspace_Close(t *testing.T) {
	provider := mock.NewMockProvider()
	ws, err := Open(t.TempDir(), WithProvider(provider))
	require.NoError(t, err)
	assert.NoError(t, ws.Close())
	assert.Equal(t, 1, provider.(*mock.MockProvider).CloseCount())
}

func TestWorkspace_NewIndexerWithoutProvider(t *testing.T) {
	ws, err := Open("", WithInMemory())
	require.NoError(t, err)
	defer ws.Close()

	_, err = ws.NewIndexer()
	assert.ErrorIs(t, err, ErrNoEmbedder)
}

func TestWorkspace_IndexThenAnalyze(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	completer := mock.NewMockCompleter()
	ws, err := Open("", WithInMemory(),
		WithProvider(mock.NewMockProviderWithServices(embedder, completer)),
		WithEngineConfig(engine.NewConfig(engine.WithLLMValidation(false))),
		WithPoolSize(2),
	)
	require.NoError(t, err)
	defer ws.Close()

	docs := []*core.Document{
		{ID: "setup", SourceType: "confluence", SourceTitle: "Build setup", Text: "Install Python 3.11 on the build agents."},
		{ID: "readme", SourceType: "git", SourceTitle: "README", Text: "Install Python 3.9 on the build agents."},
		{ID: "budget", SourceType: "jira", SourceTitle: "Budget", Text: "Quarterly marketing budget review for the events team."},
	}

	ix, err := ws.NewIndexer()
	require.NoError(t, err)
	defer ix.Release()

	ctx := context.Background()
	result, err := ix.Index(ctx, docs)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Indexed)

	count, err := ws.Repository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	report := ws.Engine().DetectConflicts(ctx, docs)
	require.NotNil(t, report)
	require.Len(t, report.Pairs, 1, fmt.Sprintf("%+v", report.Pairs))
	pair := report.Pairs[0]
	assert.ElementsMatch(t, []string{"setup", "readme"}, []string{pair.DocAID, pair.DocBID})
	assert.Equal(t, core.ConflictVersion, pair.Kind)
	assert.Zero(t, completer.CallCount(), "llm validation is disabled")
}

func TestWorkspace_Neighbours(t *testing.T) {
	ws, err := Open("", WithInMemory())
	require.NoError(t, err)
	defer ws.Close()

	ctx := context.Background()
	require.NoError(t, ws.Repository().PutEmbeddings(ctx,
		&core.EmbeddingRecord{DocID: "a", Vector: []float32{1, 0, 0}, Model: "m"},
		&core.EmbeddingRecord{DocID: "b", Vector: []float32{0.9, 0.1, 0}, Model: "m"},
		&core.EmbeddingRecord{DocID: "c", Vector: []float32{0.5, 0.5, 0}, Model: "m"},
		&core.EmbeddingRecord{DocID: "d", Vector: []float32{-1, 0, 0}, Model: "m"},
	))

	t.Run("closest first without the target", func(t *testing.T) {
		matches, err := ws.Neighbours(ctx, "a", 2)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "b", matches[0].DocID)
		assert.Equal(t, "c", matches[1].DocID)
	})

	t.Run("opposite vectors excluded", func(t *testing.T) {
		matches, err := ws.Neighbours(ctx, "a", 10)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := ws.Neighbours(ctx, "missing", 2)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := ws.Neighbours(ctx, "a", 0)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})
}
