package complement

import (
	"fmt"
	"testing"

	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFinder(t *testing.T) *Finder {
	t.Helper()
	calc, err := similarity.NewCalculator()
	require.NoError(t, err)
	f, err := NewFinder(similarity.NewMemo(calc))
	require.NoError(t, err)
	return f
}

func TestScore_RequirementsImplementation(t *testing.T) {
	f := newTestFinder(t)
	a := &core.Document{
		ID: "a", SourceType: "confluence", SourceTitle: "Authentication Requirements",
		Text:     "Users must sign in through the corporate identity provider.",
		Entities: []core.EntityRef{{Text: "OAuth"}},
	}
	b := &core.Document{
		ID: "b", SourceType: "confluence", SourceTitle: "Authentication Implementation Guide",
		Text:          "Register the client, then exchange the authorization code for a token.",
		Entities:      []core.EntityRef{{Text: "OAuth"}},
		HasCodeBlocks: core.Ptr(true),
	}

	score, reason := f.Score(a, b)
	assert.Greater(t, score, 0.5)
	assert.LessOrEqual(t, score, 0.95)
	assert.Contains(t, reason, "requirements-implementation")

	reverse, reverseReason := f.Score(b, a)
	assert.Greater(t, reverse, 0.5)
	assert.Contains(t, reverseReason, "requirements-implementation")
}

func TestScore_KeywordsMatchWholeWords(t *testing.T) {
	f, err := NewFinder(nil)
	require.NoError(t, err)
	a := &core.Document{ID: "a", ProjectID: "cache", SourceTitle: "A Perspective on Caching"}
	b := &core.Document{
		ID: "b", ProjectID: "cache", SourceTitle: "Caching Overview",
		Text: "We decode payloads before caching them.",
	}

	assert.Empty(t, f.Factors(a, b))
	score, reason := f.Score(a, b)
	assert.Equal(t, 0.0, score)
	assert.Equal(t, "no complementary signals", reason)

	assert.Equal(t, LevelUnknown, ClassifyLevel(a, 0))
	assert.Equal(t, LevelUnknown, ClassifyLevel(b, 0))
}

func TestScore_FallbackNeverExceedsHalf(t *testing.T) {
	f := newTestFinder(t)

	var topics []core.TopicRef
	for i := 0; i < 10; i++ {
		topics = append(topics, core.TopicRef{Text: fmt.Sprintf("topic-%d", i)})
	}
	a := &core.Document{ID: "a", Topics: topics, Text: "alpha"}
	b := &core.Document{ID: "b", Topics: topics, Text: "beta"}

	assert.Empty(t, f.Factors(a, b))
	score, reason := f.Score(a, b)
	assert.LessOrEqual(t, score, 0.5)
	assert.Contains(t, reason, "fallback")

	plain := &core.Document{ID: "c", Text: "gamma"}
	score, reason = f.Score(a, plain)
	assert.Equal(t, 0.0, score)
	assert.Equal(t, "no complementary signals", reason)
}

func TestScore_DifferentProjects(t *testing.T) {
	f := newTestFinder(t)
	business := &core.Document{
		ID: "biz", ProjectID: "sales", SourceTitle: "Q3 revenue plan",
		Text:     "Customer pricing changes to grow revenue in the enterprise market.",
		Entities: []core.EntityRef{{Text: "Salesforce"}},
	}
	technical := &core.Document{
		ID: "tech", ProjectID: "platform", SourceTitle: "Billing service",
		Text:     "The billing API endpoint writes invoices to the database schema.",
		Entities: []core.EntityRef{{Text: "Salesforce"}},
	}

	factors := f.Factors(business, technical)
	require.Len(t, factors, 2)
	score, reason := f.Score(business, technical)
	assert.InDelta(t, 0.6+0.55*0.2, score, 1e-9)
	assert.Contains(t, reason, "cross-functional")
	assert.Contains(t, reason, "similar challenges")
}

func TestScore_NearDuplicateHalved(t *testing.T) {
	f := newTestFinder(t)
	a := &core.Document{
		ID: "a", SourceType: "git", Depth: core.Ptr(1), SourceTitle: "Deploy guide", Text: "Deploy the service with helm",
		Entities: []core.EntityRef{{Text: "Helm"}}, Topics: []core.TopicRef{{Text: "deploy"}},
		HasCodeBlocks: core.Ptr(true), HasTables: core.Ptr(false), WordCount: core.Ptr(100), EstimatedReadTime: core.Ptr(1),
	}
	b := *a
	b.ID = "b"

	score, reason := f.Score(a, &b)
	assert.InDelta(t, 0.5/2, score, 1e-9)
	assert.Contains(t, reason, "near-duplicate")
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name     string
		factors  []Factor
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []Factor{{0.6, "x"}}, 0.6},
		{"diminishing", []Factor{{0.5, "b"}, {0.6, "a"}, {0.4, "c"}}, 0.6 + 0.5*0.2 + 0.4*0.1},
		{"capped", []Factor{{0.85, "a"}, {0.75, "b"}, {0.7, "c"}}, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := Aggregate(tt.factors)
			assert.InDelta(t, tt.expected, score, 1e-9)
		})
	}

	_, reason := Aggregate([]Factor{{0.1, "weak"}, {0.9, "strong"}})
	assert.Equal(t, "strong; weak", reason)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		title   string
		level   Level
		docType DocType
	}{
		{"2025 Product Strategy and Roadmap", LevelStrategy, DocTypeUnknown},
		{"Checkout Requirements", LevelRequirements, DocTypeUnknown},
		{"Payments Architecture Design", LevelDesign, DocTypeUnknown},
		{"Setup Guide", LevelImplementation, DocTypeUnknown},
		{"Getting Started Tutorial", LevelUnknown, DocTypeTutorial},
		{"CLI Reference", LevelUnknown, DocTypeReference},
		{"Webhook Example", LevelUnknown, DocTypeExample},
		{"Meeting notes", LevelUnknown, DocTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			d := &core.Document{SourceTitle: tt.title}
			assert.Equal(t, tt.level, ClassifyLevel(d, 0))
			assert.Equal(t, tt.docType, ClassifyType(d, 0))
		})
	}
}

func TestRank(t *testing.T) {
	f := newTestFinder(t)
	target := &core.Document{ID: "req", SourceTitle: "Search Requirements", Entities: []core.EntityRef{{Text: "Elasticsearch"}}}
	candidates := []*core.Document{
		target,
		{ID: "impl", SourceTitle: "Search Implementation", Entities: []core.EntityRef{{Text: "Elasticsearch"}}},
		{ID: "other", SourceTitle: "Lunch menu"},
		{ID: "design", SourceTitle: "Search Architecture", Entities: []core.EntityRef{{Text: "Elasticsearch"}}},
		nil,
	}

	ranked := f.Rank(target, candidates, 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "impl", ranked[0].Document.DocID())
	assert.Equal(t, "design", ranked[1].Document.DocID())
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
	for _, r := range ranked {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 0.95)
	}

	assert.Len(t, f.Rank(target, candidates, 1), 1)
}
