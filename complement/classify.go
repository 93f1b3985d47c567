package complement

import (
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/lexical"
)

// Level is a position on the strategy to implementation spectrum.
type Level int

const (
	LevelUnknown Level = iota - 1
	LevelStrategy
	LevelRequirements
	LevelDesign
	LevelImplementation
)

var levelNames = map[Level]string{
	LevelUnknown:        "unknown",
	LevelStrategy:       "strategy",
	LevelRequirements:   "requirements",
	LevelDesign:         "design",
	LevelImplementation: "implementation",
}

func (l Level) String() string {
	return levelNames[l]
}

// DocType is a coarse document genre.
type DocType string

const (
	DocTypeUnknown   DocType = ""
	DocTypeTutorial  DocType = "tutorial"
	DocTypeReference DocType = "reference"
	DocTypeExample   DocType = "example"
)

// Title matches count this many times more than body matches.
const titleWeight = 3

var (
	requirementsKeywords   = []string{"requirement", "spec", "user story", "user stories", "acceptance criteria", "prd"}
	implementationKeywords = []string{"implementation", "guide", "code", "how to", "setup", "install"}

	levelKeywords = []struct {
		level    Level
		keywords []string
	}{
		{LevelStrategy, []string{"strategy", "roadmap", "vision", "objective", "okr", "goals"}},
		{LevelRequirements, []string{"requirement", "spec", "user story", "acceptance criteria", "prd"}},
		{LevelDesign, []string{"design", "architecture", "diagram", "rfc", "proposal", "data model"}},
		{LevelImplementation, []string{"implementation", "code", "guide", "setup", "install", "configure", "deploy"}},
	}

	typeKeywords = []struct {
		docType  DocType
		keywords []string
	}{
		{DocTypeTutorial, []string{"tutorial", "getting started", "walkthrough", "step by step", "how to", "quickstart"}},
		{DocTypeReference, []string{"reference", "api docs", "glossary", "parameters", "options", "cheat sheet"}},
		{DocTypeExample, []string{"example", "sample", "demo", "snippet", "use case"}},
	}

	businessKeywords  = []string{"business", "revenue", "customer", "market", "stakeholder", "roi", "sales", "pricing", "budget", "kpi"}
	technicalKeywords = []string{"api", "code", "implementation", "architecture", "database", "deploy", "server", "endpoint", "function", "schema"}
)

// profile is the phrase-matchable text a document is classified on.
type profile struct {
	title lexical.PhraseText
	body  lexical.PhraseText
	code  bool
}

func newProfile(d *core.Document, window int) profile {
	return profile{
		title: lexical.NewPhraseText(d.SourceTitle),
		body:  lexical.NewPhraseText(d.Window(window)),
		code:  d.HasCodeBlocks != nil && *d.HasCodeBlocks,
	}
}

func (p profile) weight(keywords []string) int {
	return titleWeight*p.title.Count(keywords) + p.body.Count(keywords)
}

// isRequirements and isImplementation trust the title first and fall back
// to the body only when the title is silent on both sides.
func (p profile) isRequirements() bool {
	if p.title.Count(requirementsKeywords) > 0 {
		return true
	}
	if p.title.Count(implementationKeywords) > 0 {
		return false
	}
	return p.body.Count(requirementsKeywords) > p.body.Count(implementationKeywords)
}

func (p profile) isImplementation() bool {
	if p.title.Count(implementationKeywords) > 0 {
		return true
	}
	if p.title.Count(requirementsKeywords) > 0 {
		return false
	}
	return p.code || p.body.Count(implementationKeywords) > p.body.Count(requirementsKeywords)
}

func (p profile) level() Level {
	best, bestWeight := LevelUnknown, 0
	for _, lk := range levelKeywords {
		if w := p.weight(lk.keywords); w > bestWeight {
			best, bestWeight = lk.level, w
		}
	}
	if best == LevelUnknown && p.code {
		return LevelImplementation
	}
	return best
}

func (p profile) docType() DocType {
	best, bestWeight := DocTypeUnknown, 0
	for _, tk := range typeKeywords {
		if w := p.weight(tk.keywords); w > bestWeight {
			best, bestWeight = tk.docType, w
		}
	}
	return best
}

// orientation reports whether a document reads as business (+1),
// technical (-1) or neither (0).
func (p profile) orientation() int {
	business, technical := p.weight(businessKeywords), p.weight(technicalKeywords)
	if p.code {
		technical++
	}
	switch {
	case business > technical:
		return 1
	case technical > business:
		return -1
	default:
		return 0
	}
}

// ClassifyLevel returns the abstraction level of d judged on its title and
// the first window characters of its text.
func ClassifyLevel(d *core.Document, window int) Level {
	return newProfile(d, window).level()
}

// ClassifyType returns the document genre of d.
func ClassifyType(d *core.Document, window int) DocType {
	return newProfile(d, window).docType()
}
