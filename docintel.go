// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package docintel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/docintel/ai"
	"github.com/poiesic/docintel/ai/openai"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/engine"
	"github.com/poiesic/docintel/indexing"
	"github.com/poiesic/docintel/storage"
	"github.com/poiesic/docintel/storage/badger"
)

// ErrNoEmbedder is returned when indexing is requested from a workspace
// opened without an AI provider.
var ErrNoEmbedder = errors.New("workspace has no embedding provider")

// Workspace ties together the embedding store, the AI provider and the
// analysis engine.
type Workspace struct {
	backend        *badger.Backend
	repo           *badger.EmbeddingRepository
	provider       ai.AIProvider
	engine         *engine.Engine
	embeddingModel string
	baseLogger     *slog.Logger
	logger         *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	engineConfig   engine.Config
	aiConfig       *ai.Config
	provider       ai.AIProvider
	textSimilarity ai.TextSimilarity
	monitor        engine.Monitor
	poolSize       int
	inMemory       bool
	logger         *slog.Logger
}

// WithEngineConfig sets the analysis configuration. Default is engine.DefaultConfig().
func WithEngineConfig(cfg engine.Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.engineConfig = cfg
	}
}

// WithAIConfig connects the workspace to OpenAI-compatible embedding and
// chat services. Without it the engine runs on lexical scoring only.
func WithAIConfig(cfg *ai.Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.aiConfig = cfg
	}
}

// WithProvider uses an already constructed provider. It takes precedence
// over WithAIConfig. The workspace closes it on Close.
func WithProvider(provider ai.AIProvider) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.provider = provider
	}
}

// WithTextSimilarity sets the text similarity collaborator used for semantic scoring.
func WithTextSimilarity(ts ai.TextSimilarity) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.textSimilarity = ts
	}
}

// WithMonitor installs engine stage hooks.
func WithMonitor(monitor engine.Monitor) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.monitor = monitor
	}
}

// WithPoolSize sets the engine worker pool size.
func WithPoolSize(size int) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.poolSize = size
	}
}

// WithInMemory keeps embeddings in memory only.
func WithInMemory() WorkspaceOption {
	return func(o *workspaceOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.logger = logger
	}
}

// Open opens (or creates) a workspace whose embeddings live at filePath.
func Open(filePath string, opts ...WorkspaceOption) (*Workspace, error) {
	options := &workspaceOptions{
		engineConfig: engine.DefaultConfig(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo, err := badger.NewEmbeddingRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	embeddingModel := ""
	if provider == nil && options.aiConfig != nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repo.Close()
			backend.Close()
			return nil, err
		}
	}
	if options.aiConfig != nil {
		embeddingModel = options.aiConfig.EmbeddingModel
	}

	engineOpts := []engine.Option{
		engine.WithVectorStore(storage.NewVectorStore(repo, options.logger)),
		engine.WithLogger(options.logger),
	}
	if provider != nil {
		engineOpts = append(engineOpts, engine.WithChatCompleter(provider.ChatCompleter()))
	}
	if options.textSimilarity != nil {
		engineOpts = append(engineOpts, engine.WithTextSimilarity(options.textSimilarity))
	}
	if options.monitor != nil {
		engineOpts = append(engineOpts, engine.WithMonitor(options.monitor))
	}
	if options.poolSize > 0 {
		engineOpts = append(engineOpts, engine.WithPoolSize(options.poolSize))
	}

	eng, err := engine.NewEngine(options.engineConfig, engineOpts...)
	if err != nil {
		if provider != nil {
			provider.Close()
		}
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &Workspace{
		backend:        backend,
		repo:           repo,
		provider:       provider,
		engine:         eng,
		embeddingModel: embeddingModel,
		baseLogger:     options.logger,
		logger:         options.logger.With("component", "workspace"),
	}, nil
}

// Engine returns the analysis engine.
func (w *Workspace) Engine() *engine.Engine {
	return w.engine
}

// Repository returns the embedding store.
func (w *Workspace) Repository() storage.EmbeddingRepository {
	return w.repo
}

// NewIndexer creates an indexer that embeds with the workspace provider.
// Options are applied after the workspace defaults, so WithConfig replaces
// the recorded model name as well.
func (w *Workspace) NewIndexer(opts ...indexing.Option) (*indexing.Indexer, error) {
	if w.provider == nil {
		return nil, ErrNoEmbedder
	}
	cfg := indexing.DefaultConfig()
	cfg.Model = w.embeddingModel
	opts = append([]indexing.Option{indexing.WithConfig(cfg), indexing.WithLogger(w.baseLogger)}, opts...)
	return indexing.NewIndexer(w.repo, w.provider.Embedder(), opts...)
}

// Neighbours returns the stored documents whose embeddings are closest to
// the embedding of docID, best first. docID itself is not included.
func (w *Workspace) Neighbours(ctx context.Context, docID string, limit int) ([]core.EmbeddingMatch, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", storage.ErrInvalidQuery, limit)
	}

	record, err := w.repo.GetEmbedding(ctx, docID)
	if err != nil {
		return nil, err
	}

	matches, err := w.repo.FindSimilar(ctx, record.Vector, 0, limit+1)
	if err != nil {
		return nil, err
	}

	neighbours := make([]core.EmbeddingMatch, 0, limit)
	for _, m := range matches {
		if m.DocID == docID {
			continue
		}
		neighbours = append(neighbours, m)
		if len(neighbours) == limit {
			break
		}
	}
	w.logger.Debug("neighbours found", "doc", docID, "count", len(neighbours))
	return neighbours, nil
}

// Close releases the engine, the provider and the store.
func (w *Workspace) Close() error {
	w.engine.Release()

	if w.provider != nil {
		if err := w.provider.Close(); err != nil {
			w.logger.Error("error closing AI provider", "err", err)
		}
	}

	if err := w.repo.Close(); err != nil {
		w.logger.Error("error closing embedding repository", "err", err)
		return err
	}

	if err := w.backend.Close(); err != nil {
		w.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
