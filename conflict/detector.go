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


package conflict

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/poiesic/docintel/ai"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/lexical"
	"github.com/poiesic/docintel/similarity"
)

const (
	// DefaultCallTimeout bounds each vector store or chat call.
	DefaultCallTimeout = 10 * time.Second

	minSharedTerms      = 2
	significantTermLen  = 4
	semanticGateMinimum = 0.25
)

// Refinement selects the optional stages for one Detect call.
type Refinement struct {
	// Embeddings enables the cosine similarity bonus from the vector store.
	Embeddings bool
	// AllowLLM is consulted right before an adjudication call; returning
	// false skips it. Nil allows the call.
	AllowLLM func() bool
}

// Detector finds contradictions between document pairs.
// It holds only read-only state and is safe for concurrent use.
type Detector struct {
	textWindow  int
	semantic    func(a, b *core.Document) float64
	vectors     ai.Capability[ai.VectorStore]
	chat        ai.Capability[ai.ChatCompleter]
	callTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Detector.
type Option func(*Detector) error

// WithTextWindow bounds the characters of each document that are scanned
// and sent to the chat model.
func WithTextWindow(chars int) Option {
	return func(d *Detector) error {
		d.textWindow = chars
		return nil
	}
}

// WithSemantic replaces the lexical similarity used by the prefilter for
// pairs that share neither enough terms nor an entity.
func WithSemantic(fn func(a, b *core.Document) float64) Option {
	return func(d *Detector) error {
		d.semantic = fn
		return nil
	}
}

// WithVectorStore enables the embedding refinement. A nil store disables it.
func WithVectorStore(store ai.VectorStore) Option {
	return func(d *Detector) error {
		d.vectors = ai.Available(store)
		return nil
	}
}

// WithChatCompleter enables LLM adjudication. A nil completer disables it.
func WithChatCompleter(chat ai.ChatCompleter) Option {
	return func(d *Detector) error {
		d.chat = ai.Available(chat)
		return nil
	}
}

// WithCallTimeout sets the per-call timeout for collaborators.
func WithCallTimeout(timeout time.Duration) Option {
	return func(d *Detector) error {
		if timeout <= 0 {
			return fmt.Errorf("call timeout must be positive, got %v", timeout)
		}
		d.callTimeout = timeout
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger.With("component", "conflict")
		return nil
	}
}

// NewDetector creates a lexical-only detector unless collaborators are given.
func NewDetector(opts ...Option) (*Detector, error) {
	d := &Detector{
		textWindow:  similarity.DefaultTextWindow,
		vectors:     ai.Unavailable[ai.VectorStore](),
		chat:        ai.Unavailable[ai.ChatCompleter](),
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default().With("component", "conflict"),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// HasVectorStore reports whether the embedding refinement is available.
func (d *Detector) HasVectorStore() bool { return d.vectors.IsAvailable() }

// HasChatCompleter reports whether LLM adjudication is available.
func (d *Detector) HasChatCompleter() bool { return d.chat.IsAvailable() }

// features are the per-document inputs of the prefilter.
type features struct {
	terms    map[string]struct{}
	entities map[string]string
	profile  lexical.Profile
}

func (d *Detector) features(doc *core.Document) features {
	text := doc.Window(d.textWindow)
	return features{
		terms:    lexical.TermSet(text, significantTermLen),
		entities: doc.EntitySet(),
		profile:  lexical.NewProfile(text),
	}
}

func (d *Detector) prefilter(a, b *core.Document, fa, fb features) (float64, bool) {
	shared := len(lexical.Intersection(fa.terms, fb.terms))
	sharedEntity := len(lexical.Intersection(fa.entities, fb.entities)) > 0

	lexicalGate := shared >= minSharedTerms || sharedEntity

	var semantic float64
	if d.semantic != nil && !lexicalGate {
		semantic = d.semantic(a, b)
	} else {
		semantic = fa.profile.Similarity(fb.profile)
	}

	score := math.Max(lexical.Jaccard(fa.terms, fb.terms), semantic)
	return score, lexicalGate || semantic >= semanticGateMinimum
}

// Prefilter is the cheap gate in front of pattern detection. It returns a
// ranking score and whether the pair is worth examining.
func (d *Detector) Prefilter(a, b *core.Document) (float64, bool) {
	return d.prefilter(a, b, d.features(a), d.features(b))
}

// ScoredPair is a document pair ranked by the prefilter.
type ScoredPair struct {
	I, J     int
	Score    float64
	Eligible bool
}

// RankPairs scores every unordered pair of docs with the prefilter and
// returns them highest score first. Ties keep index order.
func (d *Detector) RankPairs(docs []*core.Document) []ScoredPair {
	feats := make([]features, len(docs))
	for i, doc := range docs {
		feats[i] = d.features(doc)
	}

	pairs := make([]ScoredPair, 0, len(docs)*(len(docs)-1)/2)
	for i := 0; i < len(docs); i++ {
		for j := i + 1; j < len(docs); j++ {
			score, ok := d.prefilter(docs[i], docs[j], feats[i], feats[j])
			pairs = append(pairs, ScoredPair{I: i, J: j, Score: score, Eligible: ok})
		}
	}
	sort.SliceStable(pairs, func(x, y int) bool {
		return pairs[x].Score > pairs[y].Score
	})
	return pairs
}

// Detect runs the full pipeline with every available refinement.
func (d *Detector) Detect(ctx context.Context, a, b *core.Document) *core.ConflictCandidate {
	return d.DetectWith(ctx, a, b, Refinement{Embeddings: true})
}

// DetectWith runs the prefilter, pattern detection and the refinements
// selected by ref. It returns nil when no conflict is found.
func (d *Detector) DetectWith(ctx context.Context, a, b *core.Document, ref Refinement) *core.ConflictCandidate {
	if _, ok := d.Prefilter(a, b); !ok {
		return nil
	}
	return d.examine(ctx, a, b, ref)
}

// examine runs pattern detection and refinements on a pair that already
// passed the prefilter.
func (d *Detector) examine(ctx context.Context, a, b *core.Document, ref Refinement) *core.ConflictCandidate {
	indicators := findIndicators(a.Window(d.textWindow), b.Window(d.textWindow))
	if len(indicators) == 0 {
		return nil
	}

	cosine := math.NaN()
	if ref.Embeddings {
		cosine = d.cosine(ctx, a.DocID(), b.DocID())
	}

	candidate := buildCandidate(a, b, indicators, cosine)
	if !d.chat.IsAvailable() || ctx.Err() != nil {
		return candidate
	}
	if ref.AllowLLM != nil && !ref.AllowLLM() {
		return candidate
	}
	return d.adjudicate(ctx, a, b, candidate)
}

// Examine is DetectWith for callers that already ran the prefilter.
func (d *Detector) Examine(ctx context.Context, a, b *core.Document, ref Refinement) *core.ConflictCandidate {
	return d.examine(ctx, a, b, ref)
}

// cosine fetches both embeddings and returns their cosine similarity, or NaN
// when the store is missing, slow, or does not know both documents.
func (d *Detector) cosine(ctx context.Context, idA, idB string) float64 {
	store, ok := d.vectors.Get()
	if !ok || ctx.Err() != nil {
		return math.NaN()
	}

	callCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
	defer cancel()

	vectors := store.GetEmbeddings(callCtx, []string{idA, idB})
	va, okA := vectors[idA]
	vb, okB := vectors[idB]
	if !okA || !okB {
		d.logger.Debug("embeddings unavailable for pair", "doc_a", idA, "doc_b", idB)
		return math.NaN()
	}
	return Cosine(va, vb)
}

// Cosine returns the cosine similarity of two vectors, or NaN when they are
// empty, of different length, or zero.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.NaN()
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return math.NaN()
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func buildCandidate(a, b *core.Document, indicators []Indicator, cosine float64) *core.ConflictCandidate {
	texts := make([]string, len(indicators))
	var snippets []core.ConflictSnippet
	seen := make(map[core.ConflictSnippet]bool)
	for i, ind := range indicators {
		texts[i] = ind.Text
		if !seen[ind.Snippet] {
			seen[ind.Snippet] = true
			snippets = append(snippets, ind.Snippet)
		}
	}

	lead := indicators[0]
	description := fmt.Sprintf("%s conflict: %s", lead.Kind, lead.Text)
	if extra := len(indicators) - 1; extra > 0 {
		description += fmt.Sprintf(" (+%d more)", extra)
	}

	return &core.ConflictCandidate{
		DocAID:      a.DocID(),
		DocBID:      b.DocID(),
		Kind:        lead.Kind,
		Confidence:  Confidence(indicators, cosine),
		Description: description,
		Indicators:  texts,
		Snippets:    snippets,
	}
}
