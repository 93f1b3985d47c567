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


package complement

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/lexical"
	"github.com/poiesic/docintel/similarity"
)

const (
	scoreRequirementsImplementation = 0.85
	scoreTypeMismatch               = 0.6
	scoreCrossFunctional            = 0.6

	maxAbstractionGap = 3
	maxScore          = 0.95
	maxFallback       = 0.5

	// NearDuplicateThreshold is the similarity above which a candidate is
	// considered a copy of the target rather than a complement.
	NearDuplicateThreshold = 0.85
)

// Factor is one signal that contributed to a complement score.
type Factor struct {
	Score  float64
	Reason string
}

// Finder scores and ranks complementary documents.
type Finder struct {
	comparer   similarity.Comparer
	textWindow int
	logger     *slog.Logger
}

// Option configures a Finder.
type Option func(*Finder) error

// WithTextWindow bounds the text used for keyword classification.
func WithTextWindow(chars int) Option {
	return func(f *Finder) error {
		f.textWindow = chars
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger.With("component", "complement")
		return nil
	}
}

// NewFinder creates a finder. A nil comparer disables the near-duplicate penalty.
func NewFinder(comparer similarity.Comparer, opts ...Option) (*Finder, error) {
	f := &Finder{
		comparer:   comparer,
		textWindow: similarity.DefaultTextWindow,
		logger:     slog.Default().With("component", "complement"),
	}
	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Score returns how strongly candidate complements target, in [0, 0.95], and
// a human-readable reason.
func (f *Finder) Score(target, candidate *core.Document) (float64, string) {
	factors := f.Factors(target, candidate)

	var (
		score  float64
		reason string
	)
	if len(factors) > 0 {
		score, reason = Aggregate(factors)
	} else {
		score, reason = fallback(target, candidate)
	}

	if f.comparer != nil && score > 0 {
		if sim := f.comparer.Compare(target, candidate).Score; sim >= NearDuplicateThreshold {
			score /= 2
			reason += fmt.Sprintf("; near-duplicate (similarity %.2f) halves the score", sim)
		}
	}
	return score, reason
}

// Factors returns every complement signal that fires for the pair.
func (f *Finder) Factors(target, candidate *core.Document) []Factor {
	pt, pc := newProfile(target, f.textWindow), newProfile(candidate, f.textWindow)
	sharedEntities := sortedShared(target.EntitySet(), candidate.EntitySet())
	sharedTopics := sortedShared(target.TopicSet(), candidate.TopicSet())

	var factors []Factor
	if target.ProjectID == candidate.ProjectID {
		if (pt.isRequirements() && pc.isImplementation()) || (pt.isImplementation() && pc.isRequirements()) {
			factors = append(factors, Factor{scoreRequirementsImplementation, "requirements-implementation pairing"})
		}

		lt, lc := pt.level(), pc.level()
		if lt != LevelUnknown && lc != LevelUnknown && lt != lc {
			gap := int(lt - lc)
			if gap < 0 {
				gap = -gap
			}
			if gap > maxAbstractionGap {
				gap = maxAbstractionGap
			}
			factors = append(factors, Factor{
				Score:  0.3 + 0.15*float64(gap),
				Reason: fmt.Sprintf("abstraction gap %d (%s vs %s)", gap, lt, lc),
			})
		}

		tt, tc := pt.docType(), pc.docType()
		if tt != DocTypeUnknown && tc != DocTypeUnknown && tt != tc {
			factors = append(factors, Factor{scoreTypeMismatch, fmt.Sprintf("different document types (%s vs %s)", tt, tc)})
		}

		if n := len(sharedEntities); n > 0 {
			factors = append(factors, Factor{
				Score:  min(0.4+0.1*float64(n), 0.7),
				Reason: "shared technology: " + strings.Join(head(sharedEntities, 3), ", "),
			})
		}
		return factors
	}

	if shared := len(sharedEntities) + len(sharedTopics); shared > 0 {
		factors = append(factors, Factor{
			Score:  0.45 + 0.1*float64(min(shared, 4)),
			Reason: fmt.Sprintf("similar challenges across projects (%d shared entities/topics)", shared),
		})
	}
	if ot, oc := pt.orientation(), pc.orientation(); ot != 0 && oc != 0 && ot != oc {
		factors = append(factors, Factor{scoreCrossFunctional, "cross-functional business/technical pairing"})
	}
	return factors
}

// Aggregate combines factors: the strongest counts in full, the i-th further
// factor adds a fifth of its score divided by i. The total is capped at 0.95.
func Aggregate(factors []Factor) (float64, string) {
	if len(factors) == 0 {
		return 0, ""
	}
	sorted := append([]Factor(nil), factors...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	total := sorted[0].Score
	reasons := []string{sorted[0].Reason}
	for i := 1; i < len(sorted); i++ {
		total += sorted[i].Score * 0.2 / float64(i)
		reasons = append(reasons, sorted[i].Reason)
	}
	return min(total, maxScore), strings.Join(reasons, "; ")
}

func fallback(target, candidate *core.Document) (float64, string) {
	entities := len(lexical.Intersection(target.EntitySet(), candidate.EntitySet()))
	topics := len(lexical.Intersection(target.TopicSet(), candidate.TopicSet()))
	if entities == 0 && topics == 0 {
		return 0, "no complementary signals"
	}
	score := min(maxFallback, 0.1*float64(entities)+0.08*float64(topics))
	return score, fmt.Sprintf("fallback: %d shared entities, %d shared topics", entities, topics)
}

// Rank scores every candidate against target and returns those with a
// positive score, best first, at most limit of them (limit <= 0 means all).
// The target itself is skipped.
func (f *Finder) Rank(target *core.Document, candidates []*core.Document, limit int) []core.RankedDocument {
	targetID := target.DocID()
	ranked := make([]core.RankedDocument, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.DocID() == targetID {
			continue
		}
		score, reason := f.Score(target, c)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, core.RankedDocument{Document: c, Score: score, Reason: reason})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Document.DocID() < ranked[j].Document.DocID()
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	f.logger.Debug("ranked complementary documents", "target", targetID, "candidates", len(candidates), "returned", len(ranked))
	return ranked
}

func sortedShared(a, b map[string]string) []string {
	keys := lexical.Intersection(a, b)
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = a[k]
	}
	return out
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
