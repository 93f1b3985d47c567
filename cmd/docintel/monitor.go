package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/engine"
)

// colorMonitor prints engine stages for --verbose.
type colorMonitor struct {
	mu    sync.Mutex
	w     io.Writer
	stage *color.Color
}

var _ engine.Monitor = (*colorMonitor)(nil)

func newColorMonitor(w io.Writer) *colorMonitor {
	return &colorMonitor{
		w:     w,
		stage: color.New(color.FgMagenta),
	}
}

func (m *colorMonitor) printf(requestID, stage, format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	short := requestID
	if len(short) > 8 {
		short = short[:8]
	}
	fmt.Fprintf(m.w, "[%s] ", short)
	m.stage.Fprintf(m.w, "%-13s", stage)
	fmt.Fprintf(m.w, format+"\n", args...)
}

func (m *colorMonitor) Start(requestID string, documents int) {
	m.printf(requestID, "start", "%d documents", documents)
}

func (m *colorMonitor) ModeSelected(requestID string, mode core.AnalysisMode) {
	m.printf(requestID, "mode", "%s", mode)
}

func (m *colorMonitor) AfterSimilarityMatrix(requestID string, evaluated, total int) {
	m.printf(requestID, "similarity", "%d/%d pairs", evaluated, total)
}

func (m *colorMonitor) AfterClustering(requestID string, result core.ClusterResult) {
	m.printf(requestID, "clustering", "%d clusters, %d unclustered (%s)",
		len(result.Clusters), len(result.Unclustered), result.Strategy)
}

func (m *colorMonitor) AfterConflictSweep(requestID string, analysis *core.ConflictAnalysis) {
	m.printf(requestID, "conflicts", "%d conflicts in %d pairs", len(analysis.Pairs), analysis.PairsExamined)
}

func (m *colorMonitor) AfterComplementary(requestID, targetID string, ranked []core.RankedDocument) {
	m.printf(requestID, "complementary", "%s: %d recommendations", targetID, len(ranked))
}

func (m *colorMonitor) Truncated(requestID, reason string) {
	m.printf(requestID, "truncated", "%s", reason)
}

func (m *colorMonitor) Finish(report *core.AnalysisReport) {
	m.printf(report.RequestID, "finish", "%v", report.Elapsed)
}
