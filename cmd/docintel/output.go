package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/indexing"
	"github.com/urfave/cli/v2"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	label   = color.New(color.FgGreen, color.Bold)
	warning = color.New(color.FgYellow)
	faint   = color.New(color.Faint)
)

// renderer writes command results as indented JSON or colored text.
type renderer struct {
	w    io.Writer
	json bool
}

func newRenderer(c *cli.Context) *renderer {
	return &renderer{
		w:    c.App.Writer,
		json: c.String("format") == formatJSON,
	}
}

func (r *renderer) encode(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *renderer) analysis(report *core.AnalysisReport) error {
	if r.json {
		return r.encode(report)
	}

	heading.Fprintf(r.w, "Analysis %s (%s)\n", report.RequestID, report.Mode)
	fmt.Fprintf(r.w, "Documents: %d  Pairs evaluated: %d/%d  LLM calls: %d  Elapsed: %v\n",
		report.TotalDocuments, report.PairsEvaluated, report.Similarity.TotalPairs,
		report.LLMCalls, report.Elapsed)
	r.truncation(report.Truncated, report.TruncationReason)
	if len(report.Degraded) > 0 {
		warning.Fprintf(r.w, "Degraded: %s unavailable\n", strings.Join(report.Degraded, ", "))
	}

	s := report.Similarity
	fmt.Fprintln(r.w)
	label.Fprintln(r.w, "Similarity")
	fmt.Fprintf(r.w, "  average %.2f  min %.2f  max %.2f  highly similar pairs %d\n",
		s.Average, s.Min, s.Max, s.HighlySimilarPairs)
	for _, pair := range s.TopPairs {
		fmt.Fprintf(r.w, "  %.2f  %s <-> %s\n", pair.Score, pair.DocAID, pair.DocBID)
	}

	if report.Mode == core.ModeLightweight {
		return nil
	}

	fmt.Fprintln(r.w)
	r.clusterList(report.Clusters, report.Unclustered)
	if report.Conflicts != nil {
		fmt.Fprintln(r.w)
		r.conflictList(report.Conflicts)
	}
	for target, ranked := range report.Complementary {
		fmt.Fprintln(r.w)
		r.rankedList("Complements "+target, ranked)
	}
	return nil
}

func (r *renderer) clusters(result core.ClusterResult) error {
	if r.json {
		return r.encode(result)
	}

	heading.Fprintf(r.w, "Clustering (%s", result.Strategy)
	if result.Requested != result.Strategy {
		heading.Fprintf(r.w, ", requested %s", result.Requested)
	}
	heading.Fprintln(r.w, ")")
	if result.Reason != "" {
		warning.Fprintln(r.w, result.Reason)
	}
	r.clusterList(result.Clusters, result.Unclustered)
	return nil
}

func (r *renderer) clusterList(clusters []core.DocumentCluster, unclustered []string) {
	label.Fprintf(r.w, "Clusters (%d)\n", len(clusters))
	for _, cl := range clusters {
		fmt.Fprintf(r.w, "  %s  coherence %.2f  [%s]\n", cl.Name, cl.Coherence, strings.Join(cl.DocumentIDs, ", "))
		if len(cl.SharedEntities) > 0 {
			faint.Fprintf(r.w, "    entities: %s\n", strings.Join(cl.SharedEntities, ", "))
		}
		if len(cl.SharedTopics) > 0 {
			faint.Fprintf(r.w, "    topics: %s\n", strings.Join(cl.SharedTopics, ", "))
		}
	}
	if len(unclustered) > 0 {
		faint.Fprintf(r.w, "  unclustered: %s\n", strings.Join(unclustered, ", "))
	}
}

func (r *renderer) conflicts(analysis *core.ConflictAnalysis) error {
	if r.json {
		return r.encode(analysis)
	}
	r.conflictList(analysis)
	r.truncation(analysis.Truncated, "")
	return nil
}

func (r *renderer) conflictList(analysis *core.ConflictAnalysis) {
	label.Fprintf(r.w, "Conflicts (%d of %d pairs examined)\n", len(analysis.Pairs), analysis.PairsExamined)
	for _, pair := range analysis.Pairs {
		validated := ""
		if pair.LLMValidated {
			validated = " (llm validated)"
		}
		fmt.Fprintf(r.w, "  %s  %s <-> %s  confidence %.2f%s\n",
			pair.Kind, pair.DocAID, pair.DocBID, pair.Confidence, validated)
		faint.Fprintf(r.w, "    %s\n", pair.Description)
	}
	for _, kind := range core.ConflictKinds() {
		if suggestion, ok := analysis.Suggestions[kind]; ok {
			fmt.Fprintf(r.w, "  suggestion (%s): %s\n", kind, suggestion)
		}
	}
}

func (r *renderer) ranked(title string, ranked []core.RankedDocument) error {
	if r.json {
		return r.encode(ranked)
	}
	r.rankedList(title, ranked)
	return nil
}

func (r *renderer) rankedList(title string, ranked []core.RankedDocument) {
	label.Fprintf(r.w, "%s (%d)\n", title, len(ranked))
	for i, doc := range ranked {
		fmt.Fprintf(r.w, "  %d. %s  %.2f\n", i+1, doc.Document.DocID(), doc.Score)
		if doc.Reason != "" {
			faint.Fprintf(r.w, "     %s\n", doc.Reason)
		}
	}
}

func (r *renderer) relationships(m *core.RelationshipMap) error {
	if r.json {
		return r.encode(m)
	}

	heading.Fprintf(r.w, "Relationships of %s (%d pairs examined)\n", m.TargetID, m.PairsExamined)
	r.truncation(m.Truncated, m.Reason)
	for _, t := range core.RelationshipTypes() {
		links, ok := m.Relationships[t]
		if !ok {
			continue
		}
		label.Fprintf(r.w, "%s (%d)\n", t, len(links))
		for _, link := range links {
			fmt.Fprintf(r.w, "  %s  %.2f  %s\n", link.TargetID, link.Score, link.Description)
		}
	}
	return nil
}

func (r *renderer) neighbours(target string, matches []core.EmbeddingMatch) error {
	if r.json {
		return r.encode(matches)
	}
	label.Fprintf(r.w, "Neighbours of %s (%d)\n", target, len(matches))
	for i, m := range matches {
		fmt.Fprintf(r.w, "  %d. %s  %.3f\n", i+1, m.DocID, m.Score)
	}
	return nil
}

func (r *renderer) indexed(result indexing.Result) error {
	if r.json {
		return r.encode(result)
	}
	label.Fprintf(r.w, "Indexed %d documents", result.Indexed)
	fmt.Fprintf(r.w, " (%d skipped, %d batches) in %v\n", result.Skipped, result.Batches, result.Elapsed)
	return nil
}

func (r *renderer) truncation(truncated bool, reason string) {
	if !truncated {
		return
	}
	if reason == "" {
		reason = "budget exhausted"
	}
	warning.Fprintf(r.w, "Truncated: %s\n", reason)
}
