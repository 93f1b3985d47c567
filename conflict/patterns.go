package conflict

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/lexical"
)

var (
	versionPattern  = regexp.MustCompile(`^v?\d+(\.\d+)+$`)
	quantityPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(%|ms|s|sec|secs|min|mins|h|hrs|gb|mb|kb|tb|rps)?$`)
)

const (
	// subjectLookback is how many words before a value are searched for its subject.
	subjectLookback = 4
	actionTokens    = 2
)

// Tokens that never name the subject of a version.
var versionFillers = map[string]bool{"version": true, "versions": true, "v": true, "release": true, "ver": true}

// Qualifiers skipped when looking for the subject of a quantity.
var quantityFillers = map[string]bool{
	"max": true, "maximum": true, "min": true, "minimum": true, "least": true, "up": true,
	"approximately": true, "around": true, "exactly": true, "set": true, "default": true,
	"below": true, "above": true, "less": true, "greater": true, "within": true, "exceed": true,
}

// Unit spellings mapped to a canonical unit.
var units = map[string]string{
	"%": "percent", "percent": "percent",
	"ms": "ms", "millisecond": "ms", "milliseconds": "ms",
	"s": "seconds", "sec": "seconds", "secs": "seconds", "second": "seconds", "seconds": "seconds",
	"min": "minutes", "mins": "minutes", "minute": "minutes", "minutes": "minutes",
	"h": "hours", "hr": "hours", "hrs": "hours", "hour": "hours", "hours": "hours",
	"day": "days", "days": "days",
	"kb": "kb", "mb": "mb", "gb": "gb", "tb": "tb",
	"user": "users", "users": "users",
	"request": "requests", "requests": "requests", "rps": "rps",
	"connection": "connections", "connections": "connections",
	"retry": "retries", "retries": "retries", "attempts": "retries",
	"time": "times", "times": "times",
	"replica": "replicas", "replicas": "replicas",
}

type cue struct {
	phrase   string
	positive bool
}

// Multi-word cues must precede their single-word prefixes.
var procedureCues = []struct {
	words []string
	cue   cue
}{
	{[]string{"must", "not"}, cue{"must not", false}},
	{[]string{"should", "not"}, cue{"should not", false}},
	{[]string{"do", "not"}, cue{"do not", false}},
	{[]string{"mustn't"}, cue{"mustn't", false}},
	{[]string{"shouldn't"}, cue{"shouldn't", false}},
	{[]string{"don't"}, cue{"don't", false}},
	{[]string{"never"}, cue{"never", false}},
	{[]string{"disable"}, cue{"disable", false}},
	{[]string{"always"}, cue{"always", true}},
	{[]string{"must"}, cue{"must", true}},
	{[]string{"should"}, cue{"should", true}},
	{[]string{"enable"}, cue{"enable", true}},
}

// mention is a pattern hit inside one document.
type mention struct {
	values   map[string]struct{}
	sentence string
}

func (m *mention) add(value, sentence string) {
	if m.values == nil {
		m.values = make(map[string]struct{})
		m.sentence = sentence
	}
	m.values[value] = struct{}{}
}

// instruction is one imperative found in a document.
type instruction struct {
	cue      cue
	action   []string
	sentence string
}

// textFacts are the pattern hits of one document text.
type textFacts struct {
	versions     map[string]*mention
	quantities   map[string]*mention
	instructions []instruction
}

func extractFacts(text string) textFacts {
	facts := textFacts{
		versions:   make(map[string]*mention),
		quantities: make(map[string]*mention),
	}
	for _, sentence := range lexical.Sentences(text) {
		words := lexical.Words(sentence)
		for i := 0; i < len(words); i++ {
			w := words[i]

			if value, unit, ok := quantityAt(words, i); ok {
				if subject := subjectBefore(words, i, quantityFillers); subject != "" {
					key := subject + " (" + unit + ")"
					mentionFor(facts.quantities, key).add(value, sentence)
				}
				continue
			}

			if versionPattern.MatchString(w) {
				if subject := subjectBefore(words, i, versionFillers); subject != "" {
					mentionFor(facts.versions, subject).add(strings.TrimPrefix(w, "v"), sentence)
				}
				continue
			}

			if c, width, ok := cueAt(words, i); ok {
				facts.instructions = append(facts.instructions, instruction{
					cue:      c,
					action:   actionAfter(words, i+width),
					sentence: sentence,
				})
				i += width - 1
			}
		}
	}
	return facts
}

func mentionFor(m map[string]*mention, key string) *mention {
	if existing, ok := m[key]; ok {
		return existing
	}
	created := &mention{}
	m[key] = created
	return created
}

// quantityAt reports a number with a unit at position i, either as one token
// ("30%", "500ms") or followed by a unit word ("30 seconds").
func quantityAt(words []string, i int) (string, string, bool) {
	match := quantityPattern.FindStringSubmatch(words[i])
	if match == nil {
		return "", "", false
	}
	unit := ""
	if match[2] != "" {
		unit = units[match[2]]
	} else if i+1 < len(words) {
		unit = units[words[i+1]]
	}
	if unit == "" {
		return "", "", false
	}
	f, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return "", "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), unit, true
}

// subjectBefore returns the nearest preceding word that can name a subject.
func subjectBefore(words []string, i int, fillers map[string]bool) string {
	for j := i - 1; j >= 0 && i-j <= subjectLookback; j-- {
		w := words[j]
		if fillers[w] || !lexical.IsSignificant(w, 2) {
			continue
		}
		if _, isUnit := units[w]; isUnit {
			continue
		}
		return w
	}
	return ""
}

func cueAt(words []string, i int) (cue, int, bool) {
	for _, pc := range procedureCues {
		if i+len(pc.words) > len(words) {
			continue
		}
		matched := true
		for k, w := range pc.words {
			if words[i+k] != w {
				matched = false
				break
			}
		}
		if matched {
			return pc.cue, len(pc.words), true
		}
	}
	return cue{}, 0, false
}

// actionAfter collects up to two significant words following a cue.
func actionAfter(words []string, start int) []string {
	var action []string
	for j := start; j < len(words) && len(action) < actionTokens; j++ {
		if lexical.IsSignificant(words[j], 3) {
			action = append(action, words[j])
		}
	}
	return action
}

func sameAction(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 || a[0] != b[0] {
		return false
	}
	return len(a) < 2 || len(b) < 2 || a[1] == b[1]
}

// findIndicators compares the facts of two texts and returns the
// contradictions between them.
func findIndicators(textA, textB string) []Indicator {
	fa, fb := extractFacts(textA), extractFacts(textB)

	var indicators []Indicator
	for _, subject := range sortedKeys(fa.versions) {
		ma := fa.versions[subject]
		mb, ok := fb.versions[subject]
		if !ok || intersects(ma.values, mb.values) {
			continue
		}
		indicators = append(indicators, Indicator{
			Kind:     core.ConflictVersion,
			Strength: StrengthHigh,
			Text:     fmt.Sprintf("version mismatch for %s: %s vs %s", subject, joinValues(ma.values), joinValues(mb.values)),
			Snippet:  core.ConflictSnippet{Doc1: ma.sentence, Doc2: mb.sentence},
		})
	}

	for _, key := range sortedKeys(fa.quantities) {
		ma := fa.quantities[key]
		mb, ok := fb.quantities[key]
		if !ok || intersects(ma.values, mb.values) {
			continue
		}
		strength := max(StrengthMedium, strongestPhrase(ma.sentence), strongestPhrase(mb.sentence))
		indicators = append(indicators, Indicator{
			Kind:     core.ConflictData,
			Strength: strength,
			Text:     fmt.Sprintf("different values for %s: %s vs %s", key, joinValues(ma.values), joinValues(mb.values)),
			Snippet:  core.ConflictSnippet{Doc1: ma.sentence, Doc2: mb.sentence},
		})
	}

	seen := make(map[string]bool)
	for _, ia := range fa.instructions {
		for _, ib := range fb.instructions {
			if ia.cue.positive == ib.cue.positive || !sameAction(ia.action, ib.action) {
				continue
			}
			action := strings.Join(ia.action, " ")
			key := ia.cue.phrase + "|" + ib.cue.phrase + "|" + action
			if seen[key] {
				continue
			}
			seen[key] = true
			indicators = append(indicators, Indicator{
				Kind:     core.ConflictProcedural,
				Strength: min(PhraseStrength(ia.cue.phrase), PhraseStrength(ib.cue.phrase)),
				Text:     fmt.Sprintf("contradicting instructions for %q: %q vs %q", action, ia.cue.phrase, ib.cue.phrase),
				Snippet:  core.ConflictSnippet{Doc1: ia.sentence, Doc2: ib.sentence},
			})
		}
	}

	sortIndicators(indicators)
	return indicators
}

func intersects(a, b map[string]struct{}) bool {
	return len(lexical.Intersection(a, b)) > 0
}

func joinValues(values map[string]struct{}) string {
	return strings.Join(sortedKeys(values), ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
