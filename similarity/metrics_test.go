package similarity

import (
	"testing"

	"github.com/poiesic/docintel/core"
	"github.com/stretchr/testify/assert"
)

func entities(texts ...string) []core.EntityRef {
	refs := make([]core.EntityRef, len(texts))
	for i, t := range texts {
		refs[i] = core.EntityRef{Text: t}
	}
	return refs
}

func TestEntityOverlap(t *testing.T) {
	a := &core.Document{ID: "a", Entities: entities("OAuth", "JWT", "Redis")}
	b := &core.Document{ID: "b", Entities: entities("oauth", "redis", "Kafka")}

	score, shared := EntityOverlap(a, b)
	assert.InDelta(t, 0.5, score, 1e-9)
	assert.Equal(t, []string{"OAuth", "Redis"}, shared)

	empty := &core.Document{ID: "c"}
	score, shared = EntityOverlap(a, empty)
	assert.Equal(t, 0.0, score)
	assert.Nil(t, shared)
}

func TestContentFeatures(t *testing.T) {
	full := &core.Document{
		HasCodeBlocks:     core.Ptr(true),
		HasTables:         core.Ptr(false),
		WordCount:         core.Ptr(1000),
		EstimatedReadTime: core.Ptr(5),
	}

	tests := []struct {
		name     string
		other    *core.Document
		expected float64
	}{
		{"identical", full, 1.0},
		{"all missing", &core.Document{}, 0.0},
		{
			name: "half the words and flags differ",
			other: &core.Document{
				HasCodeBlocks:     core.Ptr(false),
				HasTables:         core.Ptr(false),
				WordCount:         core.Ptr(500),
				EstimatedReadTime: core.Ptr(5),
			},
			expected: (0 + 1 + 0.5 + 1) / 4.0,
		},
		{
			name:     "only flags present",
			other:    &core.Document{HasCodeBlocks: core.Ptr(true), HasTables: core.Ptr(false)},
			expected: 0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ContentFeatures(full, tt.other), 1e-9)
			assert.InDelta(t, tt.expected, ContentFeatures(tt.other, full), 1e-9)
		})
	}
}

func TestContentFeatures_ZeroCounts(t *testing.T) {
	a := &core.Document{WordCount: core.Ptr(0), EstimatedReadTime: core.Ptr(0)}
	assert.InDelta(t, 0.5, ContentFeatures(a, a), 1e-9)
}

func TestHierarchical(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *core.Document
		expected float64
	}{
		{
			name:     "parent and child",
			a:        &core.Document{ID: "root", SourceType: "confluence"},
			b:        &core.Document{ID: "child", SourceType: "confluence", ParentID: "root"},
			expected: 1.0,
		},
		{
			name:     "same parent id",
			a:        &core.Document{ID: "x", ParentID: "p"},
			b:        &core.Document{ID: "y", ParentID: "p"},
			expected: 0.6,
		},
		{
			name:     "sibling breadcrumbs",
			a:        &core.Document{ID: "x", BreadcrumbText: "Docs > Auth > Login"},
			b:        &core.Document{ID: "y", BreadcrumbText: "docs > auth > Logout"},
			expected: 0.6,
		},
		{
			name:     "same tree with depths",
			a:        &core.Document{ID: "x", BreadcrumbText: "Docs > Auth", Depth: core.Ptr(1)},
			b:        &core.Document{ID: "y", BreadcrumbText: "Docs > API > Keys > Rotation", Depth: core.Ptr(3)},
			expected: 0.5 / 3,
		},
		{
			name:     "same root without depths",
			a:        &core.Document{ID: "x", BreadcrumbText: "Docs > Auth"},
			b:        &core.Document{ID: "y", BreadcrumbText: "Docs > API > Keys"},
			expected: 0.3,
		},
		{
			name:     "different roots",
			a:        &core.Document{ID: "x", BreadcrumbText: "Docs > Auth"},
			b:        &core.Document{ID: "y", BreadcrumbText: "Wiki > Auth > Keys"},
			expected: 0.0,
		},
		{
			name:     "different source types",
			a:        &core.Document{ID: "x", SourceType: "git", BreadcrumbText: "Docs > A"},
			b:        &core.Document{ID: "y", SourceType: "jira", BreadcrumbText: "Docs > B > C"},
			expected: 0.0,
		},
		{
			name:     "no hierarchy data",
			a:        &core.Document{ID: "x"},
			b:        &core.Document{ID: "y"},
			expected: 0.0,
		},
		{
			name:     "depth only within a source",
			a:        &core.Document{ID: "x", SourceType: "git", Depth: core.Ptr(2)},
			b:        &core.Document{ID: "y", SourceType: "git", Depth: core.Ptr(2)},
			expected: 0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Hierarchical(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.expected, Hierarchical(tt.b, tt.a), 1e-9)
		})
	}
}
