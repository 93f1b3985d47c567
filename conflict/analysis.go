package conflict

import (
	"sort"

	"github.com/poiesic/docintel/core"
)

var resolutionSuggestions = map[core.ConflictKind]string{
	core.ConflictVersion:    "Reconcile version references and mark the authoritative version in each document.",
	core.ConflictProcedural: "Establish a single source of truth for the procedure and link the other documents to it.",
	core.ConflictData:       "Verify the figures against the system of record and update the outdated document.",
	core.ConflictFactual:    "Review both claims with a subject-matter expert and correct the inaccurate one.",
}

// Suggestion returns the static resolution advice for kind.
func Suggestion(kind core.ConflictKind) string {
	return resolutionSuggestions[kind]
}

// Analyze groups candidates by kind, attaches resolution suggestions and
// orders pairs by confidence. Nil entries are ignored.
func Analyze(candidates []*core.ConflictCandidate) *core.ConflictAnalysis {
	analysis := &core.ConflictAnalysis{
		Pairs:       make([]core.ConflictCandidate, 0, len(candidates)),
		Categories:  make(map[core.ConflictKind][]core.DocPair),
		Suggestions: make(map[core.ConflictKind]string),
	}
	for _, c := range candidates {
		if c != nil {
			analysis.Pairs = append(analysis.Pairs, *c)
		}
	}

	sort.SliceStable(analysis.Pairs, func(i, j int) bool {
		a, b := analysis.Pairs[i], analysis.Pairs[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.DocAID != b.DocAID {
			return a.DocAID < b.DocAID
		}
		return a.DocBID < b.DocBID
	})

	for _, p := range analysis.Pairs {
		analysis.Categories[p.Kind] = append(analysis.Categories[p.Kind], core.DocPair{A: p.DocAID, B: p.DocBID})
		analysis.Suggestions[p.Kind] = Suggestion(p.Kind)
	}
	return analysis
}
