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
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/docintel/cluster"
	"github.com/poiesic/docintel/complement"
	"github.com/poiesic/docintel/conflict"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/similarity"
)

// Request selects what an Analyze call computes.
type Request struct {
	// Lightweight forces lightweight mode regardless of corpus size.
	Lightweight bool

	// Targets are the document ids to rank complementary content for.
	Targets []string
}

// Analyze runs one budgeted analysis over docs. It never fails: exhausted
// budgets and missing collaborators are reported on the returned report.
func (e *Engine) Analyze(ctx context.Context, docs []*core.Document, req Request) *core.AnalysisReport {
	r, cancel := e.newRequest(ctx)
	defer cancel()

	docs = uniqueDocuments(docs)
	r.monitor.Start(r.id, len(docs))

	report := &core.AnalysisReport{
		RequestID:      r.id,
		Mode:           e.selectMode(len(docs), req),
		TotalDocuments: len(docs),
		Degraded:       e.degraded(),
	}
	r.logger.Info("analysis started", "documents", len(docs), "mode", report.Mode, "degraded", report.Degraded)
	r.monitor.ModeSelected(r.id, report.Mode)

	m := e.buildMatrix(r, docs)
	report.Similarity = e.insights(m)
	report.PairsEvaluated = len(m.evaluated)

	if report.Mode == core.ModeFull {
		e.runFull(r, docs, m, req, report)
	}

	report.LLMCalls = int(r.llmCalls.Load())
	report.Truncated = r.truncated()
	report.TruncationReason = r.truncationReason()
	report.Elapsed = time.Since(r.started)

	r.logger.Info("analysis finished",
		"mode", report.Mode,
		"pairs_evaluated", report.PairsEvaluated,
		"clusters", len(report.Clusters),
		"llm_calls", report.LLMCalls,
		"truncated", report.Truncated,
		"elapsed", report.Elapsed)
	r.monitor.Finish(report)
	return report
}

func (e *Engine) selectMode(documents int, req Request) core.AnalysisMode {
	if req.Lightweight || documents < e.config.LightweightThresholdDocuments {
		return core.ModeLightweight
	}
	return core.ModeFull
}

// runFull clusters, sweeps for conflicts and ranks complements, stopping at
// the first stage that starts after the deadline.
func (e *Engine) runFull(r *request, docs []*core.Document, m *matrix, req Request, report *core.AnalysisReport) {
	if r.expired() {
		r.stopExpired("clustering")
		return
	}
	clusters := e.clusterWith(r, docs, m.memo, e.config.ClusteringStrategy)
	report.Clusters = clusters.Clusters
	report.Unclustered = clusters.Unclustered

	if r.expired() {
		r.stopExpired("conflict detection")
		return
	}
	report.Conflicts = e.sweepConflicts(r, docs, m.evaluated)

	if len(req.Targets) == 0 {
		return
	}
	finder, err := e.finder(r, m.memo)
	if err != nil {
		return
	}
	report.Complementary = make(map[string][]core.RankedDocument, len(req.Targets))
	for _, targetID := range req.Targets {
		if r.expired() {
			r.stopExpired("complementary ranking")
			return
		}
		target, ok := findDocument(docs, targetID)
		if !ok {
			r.logger.Warn("complementary target not in corpus", "target", targetID)
			continue
		}
		candidates := m.partners(docs, target)
		if len(candidates) < len(docs)-1 {
			r.stop("complementary ranking limited to pairs in the similarity matrix")
		}
		ranked := finder.Rank(target, candidates, e.config.ComplementaryLimit)
		report.Complementary[targetID] = ranked
		r.monitor.AfterComplementary(r.id, targetID, ranked)
	}
}

func (e *Engine) clusterWith(r *request, docs []*core.Document, memo *similarity.Memo, strategy core.ClusteringStrategy) core.ClusterResult {
	analyzer, err := cluster.NewAnalyzer(memo,
		cluster.WithTextWindow(e.config.TextWindowChars),
		cluster.WithLogger(r.logger))
	if err != nil {
		r.logger.Error("cluster analyzer unavailable", "err", err)
		return core.ClusterResult{Requested: strategy, Strategy: strategy, Reason: err.Error()}
	}
	result := analyzer.Cluster(docs, e.config.clusterOptions(strategy))
	r.monitor.AfterClustering(r.id, result)
	return result
}

// sweepConflicts examines the eligible pairs in tier order. The deadline is
// checked between pairs.
func (e *Engine) sweepConflicts(r *request, docs []*core.Document, pairs []conflict.ScoredPair) *core.ConflictAnalysis {
	var (
		candidates []*core.ConflictCandidate
		examined   int
	)
	ref := r.refinement()
	for _, p := range pairs {
		if !p.Eligible {
			continue
		}
		if r.expired() {
			r.stopExpired("conflict detection")
			break
		}
		examined++
		if c := e.detector.Examine(r.ctx, docs[p.I], docs[p.J], ref); c != nil {
			candidates = append(candidates, c)
		}
	}
	if r.llmCapped.Load() {
		r.stop(fmt.Sprintf("llm budget exhausted after %d adjudications", r.maxLLM))
	}

	analysis := conflict.Analyze(candidates)
	analysis.PairsExamined = examined
	analysis.Truncated = r.truncated()
	r.logger.Debug("conflict sweep finished", "examined", examined, "conflicts", len(analysis.Pairs))
	r.monitor.AfterConflictSweep(r.id, analysis)
	return analysis
}

func (e *Engine) finder(r *request, comparer similarity.Comparer) (*complement.Finder, error) {
	f, err := complement.NewFinder(comparer,
		complement.WithTextWindow(e.config.TextWindowChars),
		complement.WithLogger(r.logger))
	if err != nil {
		r.logger.Error("complement finder unavailable", "err", err)
		return nil, err
	}
	return f, nil
}

// Cluster groups docs with the given strategy over a budgeted similarity
// matrix. Pairs outside the budget count as unrelated.
func (e *Engine) Cluster(ctx context.Context, docs []*core.Document, strategy core.ClusteringStrategy) core.ClusterResult {
	r, cancel := e.newRequest(ctx)
	defer cancel()

	docs = uniqueDocuments(docs)
	m := e.buildMatrix(r, docs)
	result := e.clusterWith(r, docs, m.memo, strategy)
	if r.truncated() && result.Reason == "" && len(result.Clusters) == 0 {
		result.Reason = r.truncationReason()
	}
	return result
}

// DetectConflicts runs the two-stage conflict pipeline over every pair that
// passes the prefilter, best first, up to max_pairs_total pairs.
func (e *Engine) DetectConflicts(ctx context.Context, docs []*core.Document) *core.ConflictAnalysis {
	r, cancel := e.newRequest(ctx)
	defer cancel()

	docs = uniqueDocuments(docs)
	var eligible []conflict.ScoredPair
	for _, p := range e.detector.RankPairs(docs) {
		if p.Eligible {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) > e.config.MaxPairsTotal {
		r.stop(fmt.Sprintf("pair budget exhausted: %d of %d candidate pairs examined", e.config.MaxPairsTotal, len(eligible)))
		eligible = eligible[:e.config.MaxPairsTotal]
	}
	return e.sweepConflicts(r, docs, eligible)
}

// FindSimilar ranks docs by similarity to the target, best first, returning
// at most limit documents (limit <= 0 means all).
func (e *Engine) FindSimilar(ctx context.Context, targetID string, docs []*core.Document, limit int) ([]core.RankedDocument, error) {
	r, cancel := e.newRequest(ctx)
	defer cancel()

	docs = uniqueDocuments(docs)
	target, ok := findDocument(docs, targetID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, targetID)
	}

	var ranked []core.RankedDocument
	for _, other := range e.others(r, docs, target, "similar documents") {
		result := e.calculator.Compare(target, other)
		if result.Score <= 0 {
			continue
		}
		ranked = append(ranked, core.RankedDocument{Document: other, Score: result.Score, Reason: similarityReason(result)})
	}
	return sortRanked(ranked, limit), nil
}

// FindComplementary ranks docs by how well they complement the target.
func (e *Engine) FindComplementary(ctx context.Context, targetID string, docs []*core.Document, limit int) ([]core.RankedDocument, error) {
	r, cancel := e.newRequest(ctx)
	defer cancel()

	docs = uniqueDocuments(docs)
	target, ok := findDocument(docs, targetID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, targetID)
	}

	finder, err := e.finder(r, similarity.NewMemo(e.calculator))
	if err != nil {
		return nil, err
	}
	candidates := e.others(r, docs, target, "complementary documents")
	ranked := finder.Rank(target, candidates, limit)
	r.monitor.AfterComplementary(r.id, targetID, ranked)
	return ranked, nil
}

// others returns the documents other than target that fit in the pair
// budget. Single-target queries cost one pair per document.
func (e *Engine) others(r *request, docs []*core.Document, target *core.Document, stage string) []*core.Document {
	out := make([]*core.Document, 0, len(docs))
	for _, d := range docs {
		if d == target {
			continue
		}
		if len(out) == e.config.MaxPairsTotal {
			r.stop(fmt.Sprintf("pair budget exhausted while ranking %s", stage))
			break
		}
		if r.expired() {
			r.stopExpired(stage)
			break
		}
		out = append(out, d)
	}
	return out
}

func similarityReason(r core.SimilarityResult) string {
	var parts []string
	if len(r.SharedEntities) > 0 {
		parts = append(parts, "shared entities: "+strings.Join(r.SharedEntities, ", "))
	}
	if len(r.SharedTopics) > 0 {
		parts = append(parts, "shared topics: "+strings.Join(r.SharedTopics, ", "))
	}
	parts = append(parts, fmt.Sprintf("similarity %.2f", r.Score))
	return strings.Join(parts, "; ")
}

func sortRanked(ranked []core.RankedDocument, limit int) []core.RankedDocument {
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Document.DocID() < ranked[j].Document.DocID()
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if ranked == nil {
		ranked = []core.RankedDocument{}
	}
	return ranked
}
