package cluster

import (
	"fmt"
	"testing"

	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	calc, err := similarity.NewCalculator()
	require.NoError(t, err)
	a, err := NewAnalyzer(similarity.NewMemo(calc))
	require.NoError(t, err)
	return a
}

func doc(id string, entityTexts ...string) *core.Document {
	d := &core.Document{ID: id, SourceType: "confluence", SourceTitle: id}
	for _, e := range entityTexts {
		d.Entities = append(d.Entities, core.EntityRef{Text: e})
	}
	return d
}

func oauthCorpus() []*core.Document {
	texts := []string{
		"OAuth login flow for the web client",
		"Refreshing OAuth tokens in mobile apps",
		"OAuth scopes required by the reporting API",
		"Revoking OAuth grants after offboarding",
		"Troubleshooting OAuth redirect errors",
	}
	docs := make([]*core.Document, len(texts))
	for i, text := range texts {
		docs[i] = doc(fmt.Sprintf("oauth-%d", i), "OAuth")
		docs[i].Text = text
	}
	return docs
}

func TestCluster_SharedEntityForms1Cluster(t *testing.T) {
	a := newTestAnalyzer(t)
	docs := append(oauthCorpus(),
		doc("billing", "Stripe"),
		doc("hr", "Workday"),
	)
	docs[5].Text = "Monthly invoice export to finance"
	docs[6].Text = "Holiday calendar for staff"
	docs[5].SourceType = "jira"
	docs[6].SourceType = "sharepoint"

	for _, strategy := range []core.ClusteringStrategy{core.StrategyMixedFeatures, core.StrategyEntityBased} {
		t.Run(strategy.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Strategy = strategy
			result := a.Cluster(docs, opts)

			require.Len(t, result.Clusters, 1)
			c := result.Clusters[0]
			assert.Equal(t, 5, c.Size())
			assert.Contains(t, c.Name, "OAuth")
			assert.Greater(t, c.Coherence, 0.0)
			assert.Equal(t, []string{"OAuth"}, c.SharedEntities)
			assert.ElementsMatch(t, []string{"billing", "hr"}, result.Unclustered)
		})
	}
}

func TestCluster_Idempotent(t *testing.T) {
	a := newTestAnalyzer(t)
	docs := oauthCorpus()

	first := a.Cluster(docs, DefaultOptions())
	second := a.Cluster(docs, DefaultOptions())
	assert.Equal(t, first, second)
	require.NotEmpty(t, first.Clusters)
	assert.Regexp(t, `^cluster-[0-9a-f]{16}$`, first.Clusters[0].ID)
}

func TestCluster_InsufficientCorpus(t *testing.T) {
	a := newTestAnalyzer(t)
	opts := DefaultOptions()
	opts.MinClusterSize = 3

	result := a.Cluster(oauthCorpus()[:2], opts)
	assert.Empty(t, result.Clusters)
	assert.Contains(t, result.Reason, "insufficient documents")
	assert.Len(t, result.Unclustered, 2)
}

func TestCluster_MaxClusters(t *testing.T) {
	a := newTestAnalyzer(t)
	docs := []*core.Document{
		doc("a1", "alpha"), doc("b1", "beta"), doc("a2", "alpha"),
		doc("b2", "beta"), doc("c1", "gamma"), doc("c2", "gamma"),
	}
	opts := DefaultOptions()
	opts.Strategy = core.StrategyEntityBased
	opts.MaxClusters = 2

	result := a.Cluster(docs, opts)
	require.Len(t, result.Clusters, 2)
	assert.Equal(t, []string{"a1", "a2"}, result.Clusters[0].DocumentIDs)
	assert.Equal(t, []string{"b1", "b2"}, result.Clusters[1].DocumentIDs)
	assert.Equal(t, []string{"c1", "c2"}, result.Unclustered)
}

func TestCluster_FailedSeedStaysAvailable(t *testing.T) {
	a := newTestAnalyzer(t)
	// "lonely" shares nothing with the first seed but joins the later "x" group.
	docs := []*core.Document{doc("solo", "zeta"), doc("lonely", "x"), doc("x1", "x"), doc("x2", "x")}
	opts := DefaultOptions()
	opts.Strategy = core.StrategyEntityBased
	opts.MinClusterSize = 3

	result := a.Cluster(docs, opts)
	require.Len(t, result.Clusters, 1)
	assert.Equal(t, []string{"lonely", "x1", "x2"}, result.Clusters[0].DocumentIDs)
	assert.Equal(t, []string{"solo"}, result.Unclustered)
}

func TestCluster_ProjectBasedNaming(t *testing.T) {
	a := newTestAnalyzer(t)
	docs := []*core.Document{
		{ID: "p1", ProjectID: "apollo", SourceType: "git"},
		{ID: "p2", ProjectID: "apollo", SourceType: "git"},
		{ID: "p3", ProjectID: "apollo", SourceType: "jira"},
		{ID: "q1", ProjectID: "zeus", SourceType: "jira"},
	}
	opts := DefaultOptions()
	opts.Strategy = core.StrategyProjectBased

	result := a.Cluster(docs, opts)
	require.Len(t, result.Clusters, 1)
	assert.Equal(t, "Project documents from git sources", result.Clusters[0].Name)
	assert.Equal(t, []string{"q1"}, result.Unclustered)
}

func TestCluster_HierarchicalAndNames(t *testing.T) {
	a := newTestAnalyzer(t)
	docs := []*core.Document{
		{ID: "h1", BreadcrumbText: "Runbooks > Database", Text: "Database failover runbook steps"},
		{ID: "h2", BreadcrumbText: "runbooks > Network", Text: "Network failover runbook checklist"},
		{ID: "h3", BreadcrumbText: "Handbook > Culture", Text: "Company values"},
	}
	opts := DefaultOptions()
	opts.Strategy = core.StrategyHierarchical

	result := a.Cluster(docs, opts)
	require.Len(t, result.Clusters, 1)
	c := result.Clusters[0]
	assert.Equal(t, []string{"h1", "h2"}, c.DocumentIDs)
	assert.Equal(t, "Documents about failover, runbook, checklist", c.Name)
}

func TestCluster_TopicName(t *testing.T) {
	a := newTestAnalyzer(t)
	docs := []*core.Document{
		{ID: "t1", Topics: []core.TopicRef{{Text: "Observability"}}},
		{ID: "t2", Topics: []core.TopicRef{{Text: "observability"}}},
	}
	opts := DefaultOptions()
	opts.Strategy = core.StrategyTopicBased

	result := a.Cluster(docs, opts)
	require.Len(t, result.Clusters, 1)
	assert.Equal(t, "Content about Observability", result.Clusters[0].Name)
}

func TestCluster_FallbackName(t *testing.T) {
	a := newTestAnalyzer(t)
	docs := []*core.Document{
		{ID: "n1", ProjectID: "p"},
		{ID: "n2", ProjectID: "p"},
	}
	opts := DefaultOptions()
	opts.Strategy = core.StrategyHierarchical
	result := a.Cluster(docs, opts)
	assert.Empty(t, result.Clusters)

	docs[1].ParentID = "n1"
	result = a.Cluster(docs, opts)
	require.Len(t, result.Clusters, 1)
	assert.Equal(t, "Related document collection", result.Clusters[0].Name)
}

func TestCluster_DuplicateIDs(t *testing.T) {
	a := newTestAnalyzer(t)
	docs := []*core.Document{doc("same", "x"), doc("same", "x"), nil, doc("other", "x")}
	opts := DefaultOptions()
	opts.Strategy = core.StrategyEntityBased

	result := a.Cluster(docs, opts)
	require.Len(t, result.Clusters, 1)
	assert.Equal(t, []string{"same", "other"}, result.Clusters[0].DocumentIDs)
}

func TestNewAnalyzer_RequiresComparer(t *testing.T) {
	_, err := NewAnalyzer(nil)
	assert.ErrorIs(t, err, ErrComparerRequired)
}
