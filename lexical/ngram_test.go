package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	set := func(keys ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(keys))
		for _, k := range keys {
			m[k] = struct{}{}
		}
		return m
	}

	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"identical", set("a", "b"), set("a", "b"), 1},
		{"disjoint", set("a"), set("b"), 0},
		{"half", set("a", "b"), set("b", "c", "a", "d"), 0.5},
		{"both empty", set(), set(), 0},
		{"one empty", set("a"), set(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Jaccard(tt.a, tt.b), 1e-9)
			assert.InDelta(t, Jaccard(tt.a, tt.b), Jaccard(tt.b, tt.a), 1e-9)
		})
	}
}

func TestIntersection(t *testing.T) {
	a := map[string]string{"oauth": "OAuth", "jwt": "JWT"}
	b := map[string]struct{}{"oauth": {}}
	assert.Equal(t, []string{"oauth"}, Intersection(a, b))
}

func TestNGrams(t *testing.T) {
	grams := NGrams([]string{"refresh", "token", "rotation"}, 2)
	assert.Len(t, grams, 2)
	assert.Contains(t, grams, "refresh token")
	assert.Contains(t, grams, "token rotation")
	assert.Empty(t, NGrams([]string{"one"}, 2))
	assert.Empty(t, NGrams([]string{"one"}, 0))
}

func TestSimilarity(t *testing.T) {
	a := "Configure OAuth refresh token rotation for the API gateway"
	b := "OAuth refresh token rotation is configured on the API gateway"
	c := "Quarterly revenue projections for the marketing department"

	ab := Similarity(a, b)
	ac := Similarity(a, c)

	assert.Greater(t, ab, ac)
	assert.InDelta(t, ab, Similarity(b, a), 1e-9)
	assert.InDelta(t, 0, ac, 1e-9)
	assert.InDelta(t, 1, Similarity(a, a), 1e-9)
	assert.Zero(t, Similarity("", a))
}
