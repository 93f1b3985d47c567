package cluster

import "github.com/poiesic/docintel/core"

const (
	minDepthVariance = 0.5
	minDensity       = 2.0
)

// SelectStrategy inspects the corpus shape and returns the concrete strategy
// Adaptive delegates to. Checks run in order: project diversity, hierarchy
// depth variance, entity density, topic density. MixedFeatures is the fallback.
func SelectStrategy(docs []*core.Document) core.ClusteringStrategy {
	n := len(docs)
	if n == 0 {
		return core.StrategyMixedFeatures
	}

	projects := make(map[string]struct{})
	allHaveProject := true
	withCrumbs := 0
	var depths []float64
	entityCount, topicCount := 0, 0

	for _, d := range docs {
		if d.ProjectID == "" {
			allHaveProject = false
		} else {
			projects[d.ProjectID] = struct{}{}
		}

		crumbs := d.Breadcrumbs()
		if len(crumbs) > 0 {
			withCrumbs++
		}
		switch {
		case d.Depth != nil:
			depths = append(depths, float64(*d.Depth))
		case len(crumbs) > 0:
			depths = append(depths, float64(len(crumbs)-1))
		}

		entityCount += len(d.EntitySet())
		topicCount += len(d.TopicSet())
	}

	if allHaveProject && len(projects) >= 2 && len(projects) <= n/2 {
		return core.StrategyProjectBased
	}
	if withCrumbs*2 >= n && variance(depths) >= minDepthVariance {
		return core.StrategyHierarchical
	}
	if float64(entityCount)/float64(n) >= minDensity {
		return core.StrategyEntityBased
	}
	if float64(topicCount)/float64(n) >= minDensity {
		return core.StrategyTopicBased
	}
	return core.StrategyMixedFeatures
}

func variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}
