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


package indexing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docintel/ai"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/storage"
)

// Result summarizes an indexing run.
type Result struct {
	Indexed int           // Documents embedded and stored
	Skipped int           // Duplicates, blank texts, zero vectors and up-to-date records
	Batches int           // Embedder batches completed
	Elapsed time.Duration // Wall time of the run
}

// Indexer embeds documents in batches and persists the vectors.
type Indexer struct {
	repo     storage.EmbeddingRepository
	embedder ai.Embedder
	config   *Config
	pool     *ants.Pool
	progress io.Writer
	logger   *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithConfig replaces the default Config.
func WithConfig(config *Config) Option {
	return func(ix *Indexer) error {
		if config == nil {
			config = DefaultConfig()
		}
		if err := config.Validate(); err != nil {
			return err
		}
		ix.config = config
		return nil
	}
}

// WithPoolSize sets how many batches are embedded concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		if ix.pool != nil {
			ix.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		ix.pool = pool
		return nil
	}
}

// WithProgress sets where progress lines are written. Default discards them.
func WithProgress(w io.Writer) Option {
	return func(ix *Indexer) error {
		if w == nil {
			w = io.Discard
		}
		ix.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates an Indexer writing to repo.
func NewIndexer(repo storage.EmbeddingRepository, embedder ai.Embedder, opts ...Option) (*Indexer, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	ix := &Indexer{
		repo:     repo,
		embedder: embedder,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(ix); err != nil {
			ix.Release()
			return nil, err
		}
	}

	if ix.pool == nil {
		poolSize := runtime.NumCPU() / 2
		if poolSize < 1 {
			poolSize = 1
		}
		pool, err := ants.NewPool(poolSize)
		if err != nil {
			return nil, err
		}
		ix.pool = pool
	}

	ix.logger = ix.logger.With("component", "indexer")
	return ix, nil
}

// Release releases the worker pool.
// The indexer should not be used after calling Release.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}

// Index embeds docs and stores one EmbeddingRecord per distinct DocID.
// The first failing batch cancels the remaining ones; records stored by
// batches that already finished are kept.
func (ix *Indexer) Index(ctx context.Context, docs []*core.Document) (Result, error) {
	started := time.Now()
	pending, skipped, err := ix.pending(ctx, docs)
	if err != nil {
		return Result{}, err
	}

	result := Result{Skipped: skipped}
	if len(pending) == 0 {
		fmt.Fprintf(ix.progress, "No documents to index (0 documents)\n")
		result.Elapsed = time.Since(started)
		return result, nil
	}

	fmt.Fprintf(ix.progress, "Starting indexing of %d documents (batch size: %d)\n",
		len(pending), ix.config.BatchSize)

	tracker := NewProgressTracker(ix.progress, len(pending), ix.config.ReportInterval)
	tracker.Start()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
		indexed  atomic.Int64
		zeroed   atomic.Int64
		batches  atomic.Int64
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for start := 0; start < len(pending); start += ix.config.BatchSize {
		if runCtx.Err() != nil {
			break
		}
		batch := pending[start:min(start+ix.config.BatchSize, len(pending))]

		task := func() {
			defer wg.Done()
			stored, zero, err := ix.embedBatch(runCtx, batch)
			if err != nil {
				fail(err)
				return
			}
			indexed.Add(int64(stored))
			zeroed.Add(int64(zero))
			batches.Add(1)
			tracker.Record(len(batch), zero)
		}

		wg.Add(1)
		if err := ix.pool.Submit(task); err != nil {
			ix.logger.Warn("pool rejected batch, running inline", "err", err)
			task()
		}
	}
	wg.Wait()
	tracker.Finish()

	result.Indexed = int(indexed.Load())
	result.Skipped += int(zeroed.Load())
	result.Batches = int(batches.Load())
	result.Elapsed = time.Since(started)

	if firstErr == nil && ctx.Err() != nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		ix.logger.Error("indexing failed", "indexed", result.Indexed, "err", firstErr)
		return result, firstErr
	}

	fmt.Fprintf(ix.progress, "Indexing complete. Stored %d documents in %v\n",
		result.Indexed, result.Elapsed.Round(time.Millisecond))
	ix.logger.Info("indexing complete",
		"indexed", result.Indexed,
		"skipped", result.Skipped,
		"batches", result.Batches,
		"elapsed", result.Elapsed)
	return result, nil
}

// pending returns the documents that need embedding and how many were skipped.
func (ix *Indexer) pending(ctx context.Context, docs []*core.Document) ([]*core.Document, int, error) {
	seen := make(map[string]bool, len(docs))
	var out []*core.Document
	skipped := 0
	for _, doc := range docs {
		if doc == nil || seen[doc.DocID()] || strings.TrimSpace(doc.Text) == "" {
			skipped++
			continue
		}
		seen[doc.DocID()] = true
		out = append(out, doc)
	}

	if ix.config.Reindex || len(out) == 0 {
		return out, skipped, nil
	}

	ids := make([]string, len(out))
	for i, doc := range out {
		ids[i] = doc.DocID()
	}
	existing, err := ix.repo.GetEmbeddings(ctx, ids...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read existing embeddings: %w", err)
	}
	current := make(map[string]bool, len(existing))
	for _, record := range existing {
		if record.Model == ix.config.Model {
			current[record.DocID] = true
		}
	}

	fresh := out[:0]
	for _, doc := range out {
		if current[doc.DocID()] {
			skipped++
			continue
		}
		fresh = append(fresh, doc)
	}
	return fresh, skipped, nil
}

// embedBatch embeds and stores one batch. It returns how many records were
// stored and how many came back as zero vectors.
func (ix *Indexer) embedBatch(ctx context.Context, batch []*core.Document) (int, int, error) {
	texts := make([]string, len(batch))
	for i, doc := range batch {
		texts[i] = doc.Window(ix.config.TextWindow)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = ix.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if len(embeddings) != len(batch) {
			return Permanent(fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(batch), len(embeddings)))
		}
		return nil
	}, ix.config.MaxRetries, ix.config.RetryDelay)
	if err != nil {
		return 0, 0, fmt.Errorf("embedding batch of %d: %w", len(batch), err)
	}

	now := time.Now().UTC()
	records := make([]*core.EmbeddingRecord, 0, len(batch))
	zero := 0
	for i := range batch {
		if Magnitude(embeddings[i]) == 0 {
			ix.logger.Warn("skipping zero embedding", "doc_id", batch[i].DocID())
			zero++
			continue
		}
		records = append(records, &core.EmbeddingRecord{
			DocID:     batch[i].DocID(),
			Vector:    NormalizeVector(embeddings[i]),
			Model:     ix.config.Model,
			UpdatedAt: now,
		})
	}

	if len(records) > 0 {
		if err := ix.repo.PutEmbeddings(ctx, records...); err != nil {
			return 0, 0, fmt.Errorf("failed to store embeddings: %w", err)
		}
	}
	return len(records), zero, nil
}
