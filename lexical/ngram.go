package lexical

import "strings"

// Jaccard returns |a∩b| / |a∪b|. Empty input scores 0.
func Jaccard[V any](a, b map[string]V) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Intersection returns the keys present in both maps.
func Intersection[V any, W any](a map[string]V, b map[string]W) []string {
	var shared []string
	for k := range a {
		if _, ok := b[k]; ok {
			shared = append(shared, k)
		}
	}
	return shared
}

// NGrams returns the set of word n-grams of tokens joined with a space.
func NGrams(tokens []string, n int) map[string]struct{} {
	set := make(map[string]struct{})
	if n <= 0 || len(tokens) < n {
		return set
	}
	for i := 0; i+n <= len(tokens); i++ {
		set[strings.Join(tokens[i:i+n], " ")] = struct{}{}
	}
	return set
}

// Profile holds the unigram and bigram sets of a text so that repeated
// comparisons do not re-tokenize it.
type Profile struct {
	Unigrams map[string]struct{}
	Bigrams  map[string]struct{}
}

// NewProfile tokenizes text into a Profile.
func NewProfile(text string) Profile {
	tokens := Tokenize(text)
	return Profile{
		Unigrams: NGrams(tokens, 1),
		Bigrams:  NGrams(tokens, 2),
	}
}

// Similarity is the mean of unigram and bigram Jaccard. When neither profile
// has a bigram only the unigram score is used.
func (p Profile) Similarity(q Profile) float64 {
	if len(p.Unigrams) == 0 || len(q.Unigrams) == 0 {
		return 0
	}
	uni := Jaccard(p.Unigrams, q.Unigrams)
	if len(p.Bigrams) == 0 && len(q.Bigrams) == 0 {
		return uni
	}
	return (uni + Jaccard(p.Bigrams, q.Bigrams)) / 2
}

// Similarity is the lexical fallback for semantic similarity over
// stop-word-filtered tokens. See Profile.Similarity.
func Similarity(a, b string) float64 {
	return NewProfile(a).Similarity(NewProfile(b))
}
