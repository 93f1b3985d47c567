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


package cluster

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/lexical"
	"github.com/poiesic/docintel/similarity"
)

// Analyzer clusters documents using a similarity comparer.
type Analyzer struct {
	comparer   similarity.Comparer
	textWindow int
	logger     *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithTextWindow bounds the text used to derive cluster names from content terms.
func WithTextWindow(chars int) Option {
	return func(a *Analyzer) error {
		a.textWindow = chars
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger.With("component", "cluster")
		return nil
	}
}

// NewAnalyzer creates an analyzer. The comparer is typically a per-request
// similarity.Memo so that scores are shared with other stages.
func NewAnalyzer(comparer similarity.Comparer, opts ...Option) (*Analyzer, error) {
	if comparer == nil {
		return nil, ErrComparerRequired
	}
	a := &Analyzer{
		comparer:   comparer,
		textWindow: similarity.DefaultTextWindow,
		logger:     slog.Default().With("component", "cluster"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Cluster groups docs according to opts. It never fails: an insufficient
// corpus yields an empty result with Reason set.
func (a *Analyzer) Cluster(docs []*core.Document, opts Options) core.ClusterResult {
	docs = uniqueDocuments(docs)
	result := core.ClusterResult{
		Clusters:  []core.DocumentCluster{},
		Requested: opts.Strategy,
		Strategy:  opts.Strategy,
	}

	minSize := opts.minSize()
	if len(docs) < minSize {
		result.Reason = fmt.Sprintf("insufficient documents: have %d, need at least %d", len(docs), minSize)
		result.Unclustered = documentIDs(docs)
		a.logger.Debug("skipping clustering", "documents", len(docs), "min_cluster_size", minSize)
		return result
	}

	strategy := opts.Strategy
	if strategy == core.StrategyAdaptive {
		strategy = SelectStrategy(docs)
		a.logger.Debug("adaptive strategy selected", "strategy", strategy)
	}
	result.Strategy = strategy
	admit := a.admission(strategy, opts.SimilarityThreshold)

	assigned := make([]bool, len(docs))
	for i, seed := range docs {
		if opts.MaxClusters > 0 && len(result.Clusters) >= opts.MaxClusters {
			break
		}
		if assigned[i] {
			continue
		}

		members := []int{i}
		for j, candidate := range docs {
			if j == i || assigned[j] {
				continue
			}
			if admit(seed, candidate) {
				members = append(members, j)
			}
		}
		if len(members) < minSize {
			continue
		}

		group := make([]*core.Document, len(members))
		for k, idx := range members {
			assigned[idx] = true
			group[k] = docs[idx]
		}
		result.Clusters = append(result.Clusters, a.assemble(group, strategy))
	}

	for i, doc := range docs {
		if !assigned[i] {
			result.Unclustered = append(result.Unclustered, doc.DocID())
		}
	}
	if len(result.Clusters) == 0 && result.Reason == "" {
		result.Reason = "no group of documents satisfied the admission rule"
	}

	a.logger.Debug("clustering complete",
		"strategy", strategy,
		"clusters", len(result.Clusters),
		"unclustered", len(result.Unclustered))
	return result
}

type admitFunc func(seed, candidate *core.Document) bool

func (a *Analyzer) admission(strategy core.ClusteringStrategy, threshold float64) admitFunc {
	switch strategy {
	case core.StrategyEntityBased:
		return func(s, c *core.Document) bool {
			return len(lexical.Intersection(s.EntitySet(), c.EntitySet())) > 0
		}
	case core.StrategyTopicBased:
		return func(s, c *core.Document) bool {
			return len(lexical.Intersection(s.TopicSet(), c.TopicSet())) > 0
		}
	case core.StrategyProjectBased:
		return func(s, c *core.Document) bool {
			return s.ProjectID != "" && s.ProjectID == c.ProjectID
		}
	case core.StrategyHierarchical:
		return sameHierarchy
	default:
		return func(s, c *core.Document) bool {
			return a.comparer.Compare(s, c).Score >= threshold
		}
	}
}

func sameHierarchy(s, c *core.Document) bool {
	if (s.ParentID != "" && s.ParentID == c.DocID()) || (c.ParentID != "" && c.ParentID == s.DocID()) {
		return true
	}
	if s.ParentID != "" && s.ParentID == c.ParentID {
		return true
	}
	rootS, rootC := breadcrumbRoot(s), breadcrumbRoot(c)
	return rootS != "" && strings.EqualFold(rootS, rootC)
}

func breadcrumbRoot(d *core.Document) string {
	crumbs := d.Breadcrumbs()
	if len(crumbs) == 0 {
		return ""
	}
	return crumbs[0]
}

func (a *Analyzer) assemble(group []*core.Document, strategy core.ClusteringStrategy) core.DocumentCluster {
	ids := documentIDs(group)
	threshold := len(group)/2 + len(group)%2
	if threshold < 2 {
		threshold = 2
	}

	cluster := core.DocumentCluster{
		ID:             clusterID(strategy, ids),
		Strategy:       strategy,
		DocumentIDs:    ids,
		SharedEntities: sharedTerms(group, (*core.Document).EntitySet, threshold),
		SharedTopics:   sharedTerms(group, (*core.Document).TopicSet, threshold),
		Coherence:      a.coherence(group),
	}
	cluster.Name = a.name(group, strategy, cluster.SharedEntities, cluster.SharedTopics)
	return cluster
}

func (a *Analyzer) coherence(group []*core.Document) float64 {
	if len(group) < 2 {
		return 0
	}
	total, pairs := 0.0, 0
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			total += a.comparer.Compare(group[i], group[j]).Score
			pairs++
		}
	}
	return total / float64(pairs)
}

const maxNameTerms = 3

func (a *Analyzer) name(group []*core.Document, strategy core.ClusteringStrategy, entities, topics []string) string {
	switch {
	case len(entities) > 0:
		return "Documents focused on " + strings.Join(head(entities, maxNameTerms), ", ")
	case len(topics) > 0:
		return "Content about " + strings.Join(head(topics, maxNameTerms), ", ")
	case strategy == core.StrategyProjectBased:
		return fmt.Sprintf("Project documents from %s sources", dominantSourceType(group))
	}

	freq := make(map[string]int)
	for _, doc := range group {
		for term, n := range lexical.TermFrequencies(doc.Window(a.textWindow), 4) {
			freq[term] += n
		}
	}
	if terms := lexical.TopTerms(freq, maxNameTerms); len(terms) > 0 {
		return "Documents about " + strings.Join(terms, ", ")
	}
	return "Related document collection"
}

// sharedTerms returns the terms present in at least threshold members,
// ordered by frequency then alphabetically, in their first-seen casing.
func sharedTerms(group []*core.Document, set func(*core.Document) map[string]string, threshold int) []string {
	freq := make(map[string]int)
	display := make(map[string]string)
	for _, doc := range group {
		for key, text := range set(doc) {
			freq[key]++
			if _, ok := display[key]; !ok {
				display[key] = text
			}
		}
	}
	for key, n := range freq {
		if n < threshold {
			delete(freq, key)
		}
	}
	keys := lexical.TopTerms(freq, -1)
	if len(keys) == 0 {
		return nil
	}
	shared := make([]string, len(keys))
	for i, k := range keys {
		shared[i] = display[k]
	}
	return shared
}

func dominantSourceType(group []*core.Document) string {
	freq := make(map[string]int)
	for _, doc := range group {
		if doc.SourceType != "" {
			freq[doc.SourceType]++
		}
	}
	if top := lexical.TopTerms(freq, 1); len(top) > 0 {
		return top[0]
	}
	return "mixed"
}

func clusterID(strategy core.ClusteringStrategy, ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	id := core.IDFromContent(strategy.String() + "|" + strings.Join(sorted, "\x00"))
	return fmt.Sprintf("cluster-%016x", uint64(id))
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func documentIDs(docs []*core.Document) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.DocID()
	}
	return ids
}

// uniqueDocuments drops nil entries and repeated ids, keeping the first.
func uniqueDocuments(docs []*core.Document) []*core.Document {
	seen := make(map[string]struct{}, len(docs))
	out := make([]*core.Document, 0, len(docs))
	for _, d := range docs {
		if d == nil {
			continue
		}
		id := d.DocID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, d)
	}
	return out
}
