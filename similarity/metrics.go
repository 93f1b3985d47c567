package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/lexical"
)

const (
	scoreParentChild = 1.0
	scoreSibling     = 0.6
	scoreSameTree    = 0.5
	scoreRootOnly    = 0.3
)

// EntityOverlap returns the Jaccard index of the two entity sets and the
// shared entities in a's casing, sorted.
func EntityOverlap(a, b *core.Document) (float64, []string) {
	return overlap(a.EntitySet(), b.EntitySet())
}

// TopicOverlap returns the Jaccard index of the two topic sets and the shared
// topics in a's casing, sorted.
func TopicOverlap(a, b *core.Document) (float64, []string) {
	return overlap(a.TopicSet(), b.TopicSet())
}

func overlap(sa, sb map[string]string) (float64, []string) {
	keys := lexical.Intersection(sa, sb)
	if len(keys) == 0 {
		return 0, nil
	}
	sort.Strings(keys)
	shared := make([]string, len(keys))
	for i, k := range keys {
		shared[i] = sa[k]
	}
	return lexical.Jaccard(sa, sb), shared
}

// ContentFeatures averages four shape features. A feature missing on either
// side contributes 0 to the average.
func ContentFeatures(a, b *core.Document) float64 {
	total := boolCloseness(a.HasCodeBlocks, b.HasCodeBlocks) +
		boolCloseness(a.HasTables, b.HasTables) +
		intCloseness(a.WordCount, b.WordCount) +
		intCloseness(a.EstimatedReadTime, b.EstimatedReadTime)
	return total / 4
}

func boolCloseness(a, b *bool) float64 {
	if a == nil || b == nil {
		return 0
	}
	if *a == *b {
		return 1
	}
	return 0
}

func intCloseness(a, b *int) float64 {
	if a == nil || b == nil {
		return 0
	}
	va, vb := math.Abs(float64(*a)), math.Abs(float64(*b))
	largest := math.Max(va, vb)
	if largest == 0 {
		return 1
	}
	return 1 - math.Abs(va-vb)/largest
}

// Hierarchical scores the structural relation of two documents:
// 1.0 for parent and child, 0.6 for siblings, 0.5/(1+|Δdepth|) within the
// same tree, 0.3 when only the tree matches and 0 for unrelated documents.
func Hierarchical(a, b *core.Document) float64 {
	idA, idB := a.DocID(), b.DocID()
	if (a.ParentID != "" && a.ParentID == idB) || (b.ParentID != "" && b.ParentID == idA) {
		return scoreParentChild
	}

	crumbsA, crumbsB := a.Breadcrumbs(), b.Breadcrumbs()
	if a.ParentID != "" && a.ParentID == b.ParentID {
		return scoreSibling
	}
	if len(crumbsA) >= 2 && len(crumbsA) == len(crumbsB) && sameSegments(crumbsA[:len(crumbsA)-1], crumbsB[:len(crumbsB)-1]) {
		return scoreSibling
	}

	if a.SourceType != "" && b.SourceType != "" && !strings.EqualFold(a.SourceType, b.SourceType) {
		return 0
	}

	related := false
	switch {
	case len(crumbsA) > 0 && len(crumbsB) > 0:
		related = strings.EqualFold(crumbsA[0], crumbsB[0])
	case len(crumbsA) == 0 && len(crumbsB) == 0:
		related = a.Depth != nil && b.Depth != nil && a.SourceType != "" && strings.EqualFold(a.SourceType, b.SourceType)
	}
	if !related {
		return 0
	}

	if a.Depth != nil && b.Depth != nil {
		delta := math.Abs(float64(*a.Depth - *b.Depth))
		return scoreSameTree / (1 + delta)
	}
	return scoreRootOnly
}

func sameSegments(a, b []string) bool {
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
