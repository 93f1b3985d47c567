package engine

import "github.com/poiesic/docintel/core"

// Monitor provides hooks to observe an analysis request.
// Implementations must be safe for concurrent use when the engine serves
// concurrent requests.
type Monitor interface {
	Start(requestID string, documents int)
	ModeSelected(requestID string, mode core.AnalysisMode)
	AfterSimilarityMatrix(requestID string, evaluated, total int)
	AfterClustering(requestID string, result core.ClusterResult)
	AfterConflictSweep(requestID string, analysis *core.ConflictAnalysis)
	AfterComplementary(requestID, targetID string, ranked []core.RankedDocument)
	Truncated(requestID, reason string)
	Finish(report *core.AnalysisReport)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                                   {}
func (n *noopMonitor) ModeSelected(_ string, _ core.AnalysisMode)              {}
func (n *noopMonitor) AfterSimilarityMatrix(_ string, _, _ int)                {}
func (n *noopMonitor) AfterClustering(_ string, _ core.ClusterResult)          {}
func (n *noopMonitor) AfterConflictSweep(_ string, _ *core.ConflictAnalysis)   {}
func (n *noopMonitor) AfterComplementary(_, _ string, _ []core.RankedDocument) {}
func (n *noopMonitor) Truncated(_, _ string)                                   {}
func (n *noopMonitor) Finish(_ *core.AnalysisReport)                           {}
