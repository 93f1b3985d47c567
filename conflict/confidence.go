package conflict

import (
	"math"
	"sort"
	"strings"

	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/lexical"
)

// Strength ranks how decisive an indicator is.
type Strength int

const (
	StrengthLow Strength = iota + 1
	StrengthMedium
	StrengthHigh
)

func (s Strength) String() string {
	switch s {
	case StrengthHigh:
		return "high"
	case StrengthMedium:
		return "medium"
	case StrengthLow:
		return "low"
	default:
		return "none"
	}
}

type bucket struct {
	min, max float64
}

var buckets = map[Strength]bucket{
	StrengthHigh:   {0.80, 0.95},
	StrengthMedium: {0.60, 0.79},
	StrengthLow:    {0.40, 0.59},
}

const (
	perIndicatorStep = 0.05
	embeddingWeight  = 0.05
)

// Phrase lists that place an indicator in a bucket. Longer phrases are
// matched first so that "must not" is not read as "must".
var phraseStrengths = map[string]Strength{
	"always": StrengthHigh, "never": StrengthHigh, "must": StrengthHigh, "must not": StrengthHigh,
	"mustn't": StrengthHigh, "required": StrengthHigh, "deprecated": StrengthHigh,
	"no longer supported": StrengthHigh, "removed": StrengthHigh,

	"should": StrengthMedium, "should not": StrengthMedium, "shouldn't": StrengthMedium,
	"recommended": StrengthMedium, "not recommended": StrengthMedium, "instead of": StrengthMedium,

	"enable": StrengthLow, "disable": StrengthLow, "prefer": StrengthLow, "avoid": StrengthLow,
	"do not": StrengthLow, "don't": StrengthLow, "may": StrengthLow, "can": StrengthLow,
}

// PhraseStrength returns the bucket of a cue phrase, or 0 when it is not listed.
func PhraseStrength(phrase string) Strength {
	return phraseStrengths[strings.ToLower(phrase)]
}

// strongestPhrase returns the strongest listed phrase occurring as whole
// words in text, or 0.
func strongestPhrase(text string) Strength {
	padded := " " + strings.Join(lexical.Words(text), " ") + " "
	best := Strength(0)
	for phrase, s := range phraseStrengths {
		if s > best && strings.Contains(padded, " "+phrase+" ") {
			best = s
		}
	}
	return best
}

// Indicator is one piece of lexical evidence for a conflict.
type Indicator struct {
	Kind     core.ConflictKind
	Strength Strength
	Text     string
	Snippet  core.ConflictSnippet
}

// sortIndicators orders by strength, then kind (version, procedural, data),
// then text.
func sortIndicators(indicators []Indicator) {
	sort.SliceStable(indicators, func(i, j int) bool {
		a, b := indicators[i], indicators[j]
		if a.Strength != b.Strength {
			return a.Strength > b.Strength
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Text < b.Text
	})
}

// Confidence maps indicators to a score. The strongest bucket present sets
// the floor; every further indicator in that bucket adds 0.05 and a cosine
// similarity adds up to 0.05, never leaving the bucket.
func Confidence(indicators []Indicator, cosine float64) float64 {
	best := Strength(0)
	for _, ind := range indicators {
		if ind.Strength > best {
			best = ind.Strength
		}
	}
	b, ok := buckets[best]
	if !ok {
		return 0
	}

	inBucket := 0
	for _, ind := range indicators {
		if ind.Strength == best {
			inBucket++
		}
	}
	score := b.min + perIndicatorStep*float64(inBucket-1)
	if !math.IsNaN(cosine) && cosine > 0 {
		score += embeddingWeight * math.Min(cosine, 1)
	}
	return math.Min(score, b.max)
}
