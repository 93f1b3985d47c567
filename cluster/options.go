package cluster

import "github.com/poiesic/docintel/core"

// DefaultSimilarityThreshold is the MixedFeatures admission score.
const DefaultSimilarityThreshold = 0.2

// Options control one clustering run.
type Options struct {
	Strategy core.ClusteringStrategy
	// MaxClusters caps the number of clusters. Zero or less means no cap.
	MaxClusters int
	// MinClusterSize is the smallest group reported as a cluster. Values
	// below 1 are treated as 1.
	MinClusterSize int
	// SimilarityThreshold is the MixedFeatures admission score.
	SimilarityThreshold float64
}

// DefaultOptions returns mixed-feature clustering with at most 10 clusters
// of at least 2 documents.
func DefaultOptions() Options {
	return Options{
		Strategy:            core.StrategyMixedFeatures,
		MaxClusters:         10,
		MinClusterSize:      2,
		SimilarityThreshold: DefaultSimilarityThreshold,
	}
}

func (o Options) minSize() int {
	if o.MinClusterSize < 1 {
		return 1
	}
	return o.MinClusterSize
}
