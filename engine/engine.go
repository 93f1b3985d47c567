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


package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/docintel/ai"
	"github.com/poiesic/docintel/conflict"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/similarity"
)

// Collaborator names reported in AnalysisReport.Degraded.
const (
	CollaboratorTextSimilarity = "text_similarity"
	CollaboratorVectorStore    = "vector_store"
	CollaboratorChatCompleter  = "chat_completer"
)

// Engine runs budgeted cross-document analysis. It holds read-only
// configuration and collaborators and is safe for concurrent requests.
type Engine struct {
	config         Config
	textSimilarity ai.Capability[ai.TextSimilarity]
	vectors        ai.Capability[ai.VectorStore]
	chat           ai.Capability[ai.ChatCompleter]
	calculator     *similarity.Calculator
	detector       *conflict.Detector
	pool           *ants.Pool
	monitor        Monitor
	logger         *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithTextSimilarity injects the semantic text scorer. Without one the
// calculator falls back to lexical n-gram overlap.
func WithTextSimilarity(ts ai.TextSimilarity) Option {
	return func(e *Engine) error {
		e.textSimilarity = ai.Available(ts)
		return nil
	}
}

// WithVectorStore injects the embedding lookup used to refine conflicts.
func WithVectorStore(store ai.VectorStore) Option {
	return func(e *Engine) error {
		e.vectors = ai.Available(store)
		return nil
	}
}

// WithChatCompleter injects the chat model used to adjudicate conflicts.
func WithChatCompleter(chat ai.ChatCompleter) Option {
	return func(e *Engine) error {
		e.chat = ai.Available(chat)
		return nil
	}
}

// WithPoolSize sets the worker pool size for the similarity matrix.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		if e.pool != nil {
			e.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithMonitor sets hooks that observe every request.
func WithMonitor(monitor Monitor) Option {
	return func(e *Engine) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine validates cfg and creates an engine. Collaborators are optional;
// every missing one degrades the analysis instead of failing it.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		config:         cfg,
		textSimilarity: ai.Unavailable[ai.TextSimilarity](),
		vectors:        ai.Unavailable[ai.VectorStore](),
		chat:           ai.Unavailable[ai.ChatCompleter](),
		monitor:        &noopMonitor{},
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			e.Release()
			return nil, err
		}
	}

	if e.pool == nil {
		pool, err := ants.NewPool(max(1, runtime.NumCPU()/2))
		if err != nil {
			return nil, err
		}
		e.pool = pool
	}

	// Components are built after options so they see the final collaborators.
	calcOpts := []similarity.Option{
		similarity.WithWeights(cfg.SimilarityWeights),
		similarity.WithTextWindow(cfg.TextWindowChars),
		similarity.WithLogger(e.logger),
	}
	if ts, ok := e.textSimilarity.Get(); ok {
		calcOpts = append(calcOpts, similarity.WithTextSimilarity(ts))
	}
	calculator, err := similarity.NewCalculator(calcOpts...)
	if err != nil {
		e.Release()
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	detectorOpts := []conflict.Option{
		conflict.WithTextWindow(cfg.TextWindowChars),
		conflict.WithCallTimeout(cfg.CollaboratorTimeout()),
		conflict.WithLogger(e.logger),
	}
	if store, ok := e.vectors.Get(); ok {
		detectorOpts = append(detectorOpts, conflict.WithVectorStore(store))
	}
	if chat, ok := e.chat.Get(); ok {
		detectorOpts = append(detectorOpts, conflict.WithChatCompleter(chat))
	}
	if e.textSimilarity.IsAvailable() {
		detectorOpts = append(detectorOpts, conflict.WithSemantic(calculator.Semantic))
	}
	detector, err := conflict.NewDetector(detectorOpts...)
	if err != nil {
		e.Release()
		return nil, fmt.Errorf("%w: collaborator_timeout_s: %w", ErrInvalidConfig, err)
	}

	e.calculator = calculator
	e.detector = detector
	e.logger = e.logger.With("component", "engine")
	return e, nil
}

// Config returns the configuration in use.
func (e *Engine) Config() Config {
	return e.config
}

// Release releases the worker pool. The engine should not be used after
// calling Release.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// degraded lists the collaborators this engine runs without.
func (e *Engine) degraded() []string {
	var missing []string
	if !e.textSimilarity.IsAvailable() {
		missing = append(missing, CollaboratorTextSimilarity)
	}
	if !e.vectors.IsAvailable() {
		missing = append(missing, CollaboratorVectorStore)
	}
	if e.config.EnableLLMValidation && !e.chat.IsAvailable() {
		missing = append(missing, CollaboratorChatCompleter)
	}
	return missing
}

// request carries the budget state of one call. Only the orchestrating
// goroutine records truncation reasons.
type request struct {
	ctx     context.Context
	id      string
	started time.Time
	logger  *slog.Logger
	monitor Monitor

	maxLLM    int64
	allowLLM  bool
	llmCalls  atomic.Int64
	llmCapped atomic.Bool

	reasons []string
}

func (e *Engine) newRequest(ctx context.Context) (*request, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, e.config.OverallTimeout())
	id := uuid.NewString()
	return &request{
		ctx:      ctx,
		id:       id,
		started:  time.Now(),
		logger:   e.logger.With("request_id", id),
		monitor:  e.monitor,
		maxLLM:   int64(e.config.MaxLLMPairs),
		allowLLM: e.config.EnableLLMValidation,
	}, cancel
}

// expired reports whether the deadline passed or the caller gave up.
func (r *request) expired() bool {
	return r.ctx.Err() != nil
}

// stop records why the request stopped early. Repeated reasons are ignored.
func (r *request) stop(reason string) {
	for _, existing := range r.reasons {
		if existing == reason {
			return
		}
	}
	r.reasons = append(r.reasons, reason)
	r.logger.Info("analysis truncated", "reason", reason)
	r.monitor.Truncated(r.id, reason)
}

// stopExpired records the deadline or cancellation that ended the request.
func (r *request) stopExpired(stage string) {
	if errors.Is(r.ctx.Err(), context.DeadlineExceeded) {
		r.stop("deadline exceeded during " + stage)
		return
	}
	r.stop("request cancelled during " + stage)
}

func (r *request) truncated() bool {
	return len(r.reasons) > 0
}

func (r *request) truncationReason() string {
	return strings.Join(r.reasons, "; ")
}

// reserveLLM claims one adjudication call from the budget. It is checked
// right before each call.
func (r *request) reserveLLM() bool {
	if !r.allowLLM || r.expired() {
		return false
	}
	for {
		n := r.llmCalls.Load()
		if n >= r.maxLLM {
			r.llmCapped.Store(true)
			return false
		}
		if r.llmCalls.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (r *request) refinement() conflict.Refinement {
	return conflict.Refinement{Embeddings: true, AllowLLM: r.reserveLLM}
}

// uniqueDocuments drops nil entries and repeated ids, keeping the first.
func uniqueDocuments(docs []*core.Document) []*core.Document {
	seen := make(map[string]bool, len(docs))
	out := make([]*core.Document, 0, len(docs))
	for _, d := range docs {
		if d == nil || seen[d.DocID()] {
			continue
		}
		seen[d.DocID()] = true
		out = append(out, d)
	}
	return out
}

func findDocument(docs []*core.Document, id string) (*core.Document, bool) {
	for _, d := range docs {
		if d.DocID() == id {
			return d, true
		}
	}
	return nil, false
}
