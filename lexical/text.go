package lexical

import (
	"sort"
	"strings"
	"unicode"
)

// Stop words ignored when extracting significant terms.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "to": true, "of": true, "and": true, "in": true,
	"that": true, "have": true, "has": true, "it": true, "its": true, "for": true,
	"not": true, "on": true, "with": true, "as": true, "you": true, "do": true,
	"at": true, "this": true, "but": true, "by": true, "from": true, "or": true,
	"we": true, "our": true, "your": true, "they": true, "their": true, "them": true,
	"can": true, "will": true, "if": true, "then": true, "than": true, "so": true,
	"all": true, "any": true, "each": true, "which": true, "when": true, "what": true,
	"how": true, "also": true, "into": true, "these": true, "those": true, "there": true,
	"been": true, "being": true, "does": true, "did": true, "would": true, "could": true,
	"may": true, "might": true, "about": true, "over": true, "under": true, "more": true,
	"most": true, "such": true, "before": true, "after": true, "only": true, "other": true, "some": true,
}

const trimSet = ".,!?;:'\"()[]{}<>*`_#|/\\"

// IsStopWord reports whether w (lower-case) carries no topical meaning.
func IsStopWord(w string) bool {
	return stopWords[w]
}

// Words splits text into lower-case words with surrounding punctuation trimmed.
// Stop words are kept.
func Words(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == '(' || r == ')'
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		cleaned := strings.ToLower(strings.Trim(f, trimSet))
		cleaned = strings.TrimRight(cleaned, ".:!?-")
		if cleaned != "" {
			words = append(words, cleaned)
		}
	}
	return words
}

// Tokenize returns the words of text minus stop words.
func Tokenize(text string) []string {
	words := Words(text)
	filtered := words[:0]
	for _, w := range words {
		if !stopWords[w] {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// IsSignificant reports whether a token is long enough and alphabetic enough to
// count as a content term.
func IsSignificant(token string, minLen int) bool {
	if len(token) < minLen || stopWords[token] {
		return false
	}
	for _, r := range token {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// TermFrequencies counts significant terms of at least minLen bytes.
func TermFrequencies(text string, minLen int) map[string]int {
	freq := make(map[string]int)
	for _, tok := range Tokenize(text) {
		if IsSignificant(tok, minLen) {
			freq[tok]++
		}
	}
	return freq
}

// TermSet returns the set of significant terms of at least minLen bytes.
func TermSet(text string, minLen int) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		if IsSignificant(tok, minLen) {
			set[tok] = struct{}{}
		}
	}
	return set
}

// TopTerms returns up to k terms ordered by frequency, then alphabetically.
func TopTerms(freq map[string]int, k int) []string {
	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if k >= 0 && len(terms) > k {
		terms = terms[:k]
	}
	return terms
}

// ContainsAny reports whether any of the keywords occurs in text as whole
// words.
func ContainsAny(text string, keywords []string) bool {
	return CountMatches(text, keywords) > 0
}

// CountMatches counts how many keywords occur in text as whole words.
func CountMatches(text string, keywords []string) int {
	return NewPhraseText(text).Count(keywords)
}

// PhraseText is text reduced to space-delimited lower-case words, so
// keywords and multi-word phrases only match on word boundaries.
type PhraseText string

// NewPhraseText normalizes text for phrase matching.
func NewPhraseText(text string) PhraseText {
	return PhraseText(" " + strings.Join(Words(text), " ") + " ")
}

// Has reports whether phrase occurs in p, either as written or with a
// plural "s" on its last word.
func (p PhraseText) Has(phrase string) bool {
	s := string(p)
	return strings.Contains(s, " "+phrase+" ") || strings.Contains(s, " "+phrase+"s ")
}

// Count counts how many of the phrases occur in p.
func (p PhraseText) Count(phrases []string) int {
	n := 0
	for _, phrase := range phrases {
		if p.Has(phrase) {
			n++
		}
	}
	return n
}

// Sentences splits text on sentence terminators and line breaks.
func Sentences(text string) []string {
	var (
		sentences []string
		b         strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		switch {
		case r == '\n':
			flush()
		case r == '.' || r == '!' || r == '?':
			// Keep decimal points and version dots inside a sentence.
			if r == '.' && i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
				b.WriteRune(r)
				continue
			}
			b.WriteRune(r)
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return sentences
}
