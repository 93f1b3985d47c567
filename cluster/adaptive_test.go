package cluster

import (
	"testing"

	"github.com/poiesic/docintel/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name     string
		docs     []*core.Document
		expected core.ClusteringStrategy
	}{
		{
			name:     "empty corpus",
			expected: core.StrategyMixedFeatures,
		},
		{
			name: "several projects",
			docs: []*core.Document{
				{ID: "1", ProjectID: "a"}, {ID: "2", ProjectID: "a"},
				{ID: "3", ProjectID: "b"}, {ID: "4", ProjectID: "b"},
			},
			expected: core.StrategyProjectBased,
		},
		{
			name: "one project per document",
			docs: []*core.Document{
				{ID: "1", ProjectID: "a"}, {ID: "2", ProjectID: "b"},
			},
			expected: core.StrategyMixedFeatures,
		},
		{
			name: "deep hierarchy",
			docs: []*core.Document{
				{ID: "1", BreadcrumbText: "A"},
				{ID: "2", BreadcrumbText: "A > B > C"},
				{ID: "3", BreadcrumbText: "A > B > C > D"},
			},
			expected: core.StrategyHierarchical,
		},
		{
			name: "entity rich",
			docs: []*core.Document{
				{ID: "1", Entities: []core.EntityRef{{Text: "x"}, {Text: "y"}}},
				{ID: "2", Entities: []core.EntityRef{{Text: "x"}, {Text: "z"}, {Text: "w"}}},
			},
			expected: core.StrategyEntityBased,
		},
		{
			name: "topic rich",
			docs: []*core.Document{
				{ID: "1", Topics: []core.TopicRef{{Text: "x"}, {Text: "y"}}},
				{ID: "2", Topics: []core.TopicRef{{Text: "x"}, {Text: "z"}}},
			},
			expected: core.StrategyTopicBased,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectStrategy(tt.docs))
		})
	}
}

func TestCluster_AdaptiveReportsChosenStrategy(t *testing.T) {
	a := newTestAnalyzer(t)
	docs := []*core.Document{
		{ID: "1", ProjectID: "a"}, {ID: "2", ProjectID: "a"},
		{ID: "3", ProjectID: "b"}, {ID: "4", ProjectID: "b"},
	}
	opts := DefaultOptions()
	opts.Strategy = core.StrategyAdaptive

	result := a.Cluster(docs, opts)
	assert.Equal(t, core.StrategyAdaptive, result.Requested)
	assert.Equal(t, core.StrategyProjectBased, result.Strategy)
	require.Len(t, result.Clusters, 2)
	assert.Equal(t, core.StrategyProjectBased, result.Clusters[0].Strategy)
}
