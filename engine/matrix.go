package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/poiesic/docintel/conflict"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/similarity"
)

// maxTopPairs bounds SimilarityInsights.TopPairs.
const maxTopPairs = 5

// matrix is the similarity memo of one request together with the pairs that
// were scored. The memo has no inner comparer, so later stages only see the
// pairs that fit in the budget.
type matrix struct {
	memo      *similarity.Memo
	ranked    []conflict.ScoredPair
	evaluated []conflict.ScoredPair
}

// buildMatrix tiers all pairs by the conflict prefilter and scores the best
// ones on the worker pool, up to max_pairs_total and the deadline.
func (e *Engine) buildMatrix(r *request, docs []*core.Document) *matrix {
	ranked := e.detector.RankPairs(docs)
	limit := min(len(ranked), e.config.MaxPairsTotal)
	if len(ranked) > limit {
		r.stop(fmt.Sprintf("pair budget exhausted: %d of %d pairs evaluated", limit, len(ranked)))
	}

	results := make([]core.SimilarityResult, limit)
	done := make([]bool, limit)

	var wg sync.WaitGroup
	for idx := 0; idx < limit; idx++ {
		if r.expired() {
			break
		}
		p := ranked[idx]
		task := func() {
			defer wg.Done()
			if r.expired() {
				return
			}
			results[idx] = e.calculator.Compare(docs[p.I], docs[p.J])
			done[idx] = true
		}
		wg.Add(1)
		if err := e.pool.Submit(task); err != nil {
			r.logger.Warn("worker pool rejected pair, scoring inline", "err", err)
			task()
		}
	}
	wg.Wait()

	m := &matrix{
		memo:      similarity.NewMemo(nil),
		ranked:    ranked,
		evaluated: make([]conflict.ScoredPair, 0, limit),
	}
	for idx := 0; idx < limit; idx++ {
		if done[idx] {
			m.memo.Store(results[idx])
			m.evaluated = append(m.evaluated, ranked[idx])
		}
	}
	if len(m.evaluated) < limit {
		r.stopExpired("similarity matrix")
	}

	r.logger.Debug("similarity matrix built", "pairs", len(ranked), "evaluated", len(m.evaluated))
	r.monitor.AfterSimilarityMatrix(r.id, len(m.evaluated), len(ranked))
	return m
}

// partners returns the documents whose pair with target was scored, in
// corpus order.
func (m *matrix) partners(docs []*core.Document, target *core.Document) []*core.Document {
	scored := make(map[int]bool)
	for _, p := range m.evaluated {
		switch target {
		case docs[p.I]:
			scored[p.J] = true
		case docs[p.J]:
			scored[p.I] = true
		}
	}
	out := make([]*core.Document, 0, len(scored))
	for i, d := range docs {
		if scored[i] {
			out = append(out, d)
		}
	}
	return out
}

// insights summarizes the scored pairs.
func (e *Engine) insights(m *matrix) core.SimilarityInsights {
	results := m.memo.Results()
	insights := core.SimilarityInsights{
		TotalPairs:     len(m.ranked),
		PairsEvaluated: len(results),
	}
	if len(results) == 0 {
		return insights
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].DocAID != results[j].DocAID {
			return results[i].DocAID < results[j].DocAID
		}
		return results[i].DocBID < results[j].DocBID
	})

	insights.Max = results[0].Score
	insights.Min = results[len(results)-1].Score
	var sum float64
	for _, res := range results {
		sum += res.Score
		if res.Score >= e.config.HighSimilarityThreshold {
			insights.HighlySimilarPairs++
		}
	}
	insights.Average = sum / float64(len(results))
	insights.TopPairs = results[:min(maxTopPairs, len(results))]
	return insights
}
