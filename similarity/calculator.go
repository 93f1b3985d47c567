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


package similarity

import (
	"log/slog"

	"github.com/poiesic/docintel/ai"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/lexical"
)

// DefaultTextWindow bounds the characters of each document fed to semantic scoring.
const DefaultTextWindow = 2000

// Comparer produces a SimilarityResult for a document pair.
// Implementations must be symmetric in score.
type Comparer interface {
	Compare(a, b *core.Document) core.SimilarityResult
}

// Calculator combines the sub-scores into one weighted similarity.
// It holds only read-only state and is safe for concurrent use.
type Calculator struct {
	weights    Weights
	semantic   ai.Capability[ai.TextSimilarity]
	textWindow int
	logger     *slog.Logger
}

var _ Comparer = (*Calculator)(nil)

// Option configures a Calculator.
type Option func(*Calculator) error

// WithWeights overrides the default weights.
func WithWeights(w Weights) Option {
	return func(c *Calculator) error {
		if err := w.Validate(); err != nil {
			return err
		}
		c.weights = w
		return nil
	}
}

// WithTextSimilarity injects a semantic scorer. A nil scorer keeps the
// lexical fallback.
func WithTextSimilarity(ts ai.TextSimilarity) Option {
	return func(c *Calculator) error {
		c.semantic = ai.Available(ts)
		return nil
	}
}

// WithTextWindow bounds the text fed to semantic scoring. Non-positive
// values disable the bound.
func WithTextWindow(chars int) Option {
	return func(c *Calculator) error {
		c.textWindow = chars
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "similarity")
		return nil
	}
}

// NewCalculator creates a calculator with default weights and lexical
// semantic scoring unless overridden.
func NewCalculator(opts ...Option) (*Calculator, error) {
	c := &Calculator{
		weights:    DefaultWeights(),
		semantic:   ai.Unavailable[ai.TextSimilarity](),
		textWindow: DefaultTextWindow,
		logger:     slog.Default().With("component", "similarity"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Weights returns the weights in use.
func (c *Calculator) Weights() Weights {
	return c.weights
}

// Compare scores a against b. The score is symmetric in its arguments.
func (c *Calculator) Compare(a, b *core.Document) core.SimilarityResult {
	entityScore, sharedEntities := EntityOverlap(a, b)
	topicScore, sharedTopics := TopicOverlap(a, b)

	metrics := map[core.MetricName]float64{
		core.MetricEntityOverlap:   entityScore,
		core.MetricTopicOverlap:    topicScore,
		core.MetricSemantic:        c.Semantic(a, b),
		core.MetricContentFeatures: ContentFeatures(a, b),
		core.MetricHierarchical:    Hierarchical(a, b),
	}

	return core.SimilarityResult{
		DocAID:         a.DocID(),
		DocBID:         b.DocID(),
		Score:          c.weights.Combine(metrics),
		SharedEntities: sharedEntities,
		SharedTopics:   sharedTopics,
		Metrics:        metrics,
	}
}

// Semantic scores the text of a and b with the injected scorer, falling back
// to lexical overlap. The pair is evaluated in document id order so that
// asymmetric scorers still yield a symmetric result.
func (c *Calculator) Semantic(a, b *core.Document) float64 {
	if b.DocID() < a.DocID() {
		a, b = b, a
	}
	textA, textB := a.Window(c.textWindow), b.Window(c.textWindow)

	if scorer, ok := c.semantic.Get(); ok {
		return clamp01(scorer.Similarity(textA, textB))
	}
	return lexical.Similarity(textA, textB)
}
