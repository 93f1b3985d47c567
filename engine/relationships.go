package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/similarity"
)

const (
	// minComplementScore is the complement score reported as a relationship.
	minComplementScore = 0.3
	// minReferenceLen keeps short titles such as "API" from matching everywhere.
	minReferenceLen = 4
)

// FindDocumentRelationships relates one target to every other document for
// the requested types only (all types when none are given). It skips the
// similarity matrix and spends one pair of budget per document.
func (e *Engine) FindDocumentRelationships(ctx context.Context, targetID string, docs []*core.Document, types []core.RelationshipType) (*core.RelationshipMap, error) {
	r, cancel := e.newRequest(ctx)
	defer cancel()

	docs = uniqueDocuments(docs)
	target, ok := findDocument(docs, targetID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, targetID)
	}
	if len(types) == 0 {
		types = core.RelationshipTypes()
	}

	result := &core.RelationshipMap{
		TargetID:      targetID,
		Relationships: make(map[core.RelationshipType][]core.Relationship, len(types)),
	}

	memo := similarity.NewMemo(e.calculator)
	finder, err := e.finder(r, memo)
	if err != nil {
		return nil, err
	}
	ref := r.refinement()

	for _, other := range e.others(r, docs, target, "relationships") {
		result.PairsExamined++
		for _, t := range types {
			var (
				score       float64
				description string
			)
			switch t {
			case core.RelationSemanticSimilarity:
				sim := memo.Compare(target, other)
				if sim.Score >= e.config.SimilarityThreshold {
					score, description = sim.Score, similarityReason(sim)
				}
			case core.RelationHierarchical:
				score = similarity.Hierarchical(target, other)
				description = hierarchyDescription(target, other, score)
			case core.RelationComplementary:
				if s, reason := finder.Score(target, other); s >= minComplementScore {
					score, description = s, reason
				}
			case core.RelationConflicting:
				if c := e.detector.DetectWith(r.ctx, target, other, ref); c != nil {
					score, description = c.Confidence, c.Description
				}
			case core.RelationTopicalGrouping:
				if s, shared := similarity.TopicOverlap(target, other); s > 0 {
					score, description = s, "shared topics: "+strings.Join(shared, ", ")
				}
			case core.RelationCrossReference:
				score, description = crossReference(target, other, e.config.TextWindowChars)
			}
			if score > 0 {
				result.Relationships[t] = append(result.Relationships[t], core.Relationship{
					SourceID:    targetID,
					TargetID:    other.DocID(),
					Type:        t,
					Score:       score,
					Description: description,
				})
			}
		}
	}

	for t, rels := range result.Relationships {
		sort.SliceStable(rels, func(i, j int) bool {
			if rels[i].Score != rels[j].Score {
				return rels[i].Score > rels[j].Score
			}
			return rels[i].TargetID < rels[j].TargetID
		})
		result.Relationships[t] = rels
	}
	if r.llmCapped.Load() {
		r.stop(fmt.Sprintf("llm budget exhausted after %d adjudications", r.maxLLM))
	}
	result.Truncated = r.truncated()
	result.Reason = r.truncationReason()

	r.logger.Debug("relationships found", "target", targetID, "examined", result.PairsExamined, "types", len(types))
	return result, nil
}

func hierarchyDescription(target, other *core.Document, score float64) string {
	switch {
	case score <= 0:
		return ""
	case other.ParentID != "" && other.ParentID == target.DocID():
		return "child of the target"
	case target.ParentID != "" && target.ParentID == other.DocID():
		return "parent of the target"
	case score >= 0.6:
		return "sibling in the same hierarchy"
	default:
		return fmt.Sprintf("same hierarchy (score %.2f)", score)
	}
}

// crossReference reports whether either document names the other by title
// or id.
func crossReference(target, other *core.Document, window int) (float64, string) {
	if mentions(target.Window(window), other) {
		return 1, fmt.Sprintf("target mentions %q", label(other))
	}
	if mentions(other.Window(window), target) {
		return 1, fmt.Sprintf("mentions the target %q", label(target))
	}
	return 0, ""
}

func mentions(text string, d *core.Document) bool {
	lower := strings.ToLower(text)
	for _, name := range []string{d.SourceTitle, d.ID} {
		if len(name) >= minReferenceLen && strings.Contains(lower, strings.ToLower(name)) {
			return true
		}
	}
	return false
}

func label(d *core.Document) string {
	if d.SourceTitle != "" {
		return d.SourceTitle
	}
	return d.DocID()
}
