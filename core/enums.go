package core

import (
	"fmt"
	"strings"
)

// ClusteringStrategy selects the admission rule used by the cluster analyzer.
type ClusteringStrategy int

const (
	StrategyMixedFeatures ClusteringStrategy = iota
	StrategyEntityBased
	StrategyTopicBased
	StrategyProjectBased
	StrategyHierarchical
	// StrategyAdaptive inspects the corpus and delegates to one of the others.
	StrategyAdaptive
)

var strategyNames = []string{
	"mixed_features",
	"entity_based",
	"topic_based",
	"project_based",
	"hierarchical",
	"adaptive",
}

// ClusteringStrategies lists every strategy in declaration order.
func ClusteringStrategies() []ClusteringStrategy {
	return []ClusteringStrategy{
		StrategyMixedFeatures, StrategyEntityBased, StrategyTopicBased,
		StrategyProjectBased, StrategyHierarchical, StrategyAdaptive,
	}
}

func (s ClusteringStrategy) String() string {
	return enumName(strategyNames, int(s), "strategy")
}

// ParseClusteringStrategy accepts snake_case, kebab-case or CamelCase names.
func ParseClusteringStrategy(s string) (ClusteringStrategy, error) {
	i, err := parseEnum(strategyNames, s)
	if err != nil {
		return StrategyMixedFeatures, fmt.Errorf("%w: clustering strategy %q", ErrUnknownValue, s)
	}
	return ClusteringStrategy(i), nil
}

func (s ClusteringStrategy) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ClusteringStrategy) UnmarshalText(text []byte) error {
	v, err := ParseClusteringStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ConflictKind classifies a detected contradiction.
type ConflictKind int

const (
	ConflictVersion ConflictKind = iota
	ConflictProcedural
	ConflictData
	ConflictFactual
)

var conflictKindNames = []string{"version", "procedural", "data", "factual"}

// ConflictKinds lists every conflict kind in declaration order.
func ConflictKinds() []ConflictKind {
	return []ConflictKind{ConflictVersion, ConflictProcedural, ConflictData, ConflictFactual}
}

func (k ConflictKind) String() string {
	return enumName(conflictKindNames, int(k), "conflict")
}

// ParseConflictKind parses a canonical conflict kind name.
func ParseConflictKind(s string) (ConflictKind, error) {
	i, err := parseEnum(conflictKindNames, s)
	if err != nil {
		return ConflictFactual, fmt.Errorf("%w: conflict kind %q", ErrUnknownValue, s)
	}
	return ConflictKind(i), nil
}

// ConflictKindFromLabel maps a free-form label (for example from an LLM) onto
// the closest kind. Unrecognized labels become ConflictFactual.
func ConflictKindFromLabel(label string) ConflictKind {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "version"):
		return ConflictVersion
	case strings.Contains(l, "procedur"), strings.Contains(l, "process"),
		strings.Contains(l, "instruction"), strings.Contains(l, "step"):
		return ConflictProcedural
	case strings.Contains(l, "data"), strings.Contains(l, "numer"),
		strings.Contains(l, "quantit"), strings.Contains(l, "value"):
		return ConflictData
	default:
		return ConflictFactual
	}
}

func (k ConflictKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ConflictKind) UnmarshalText(text []byte) error {
	v, err := ParseConflictKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// RelationshipType names a kind of link between two documents.
type RelationshipType int

const (
	RelationSemanticSimilarity RelationshipType = iota
	RelationHierarchical
	RelationComplementary
	RelationConflicting
	RelationTopicalGrouping
	RelationCrossReference
)

var relationshipNames = []string{
	"semantic_similarity",
	"hierarchical_relationship",
	"complementary_content",
	"conflicting_information",
	"topical_grouping",
	"cross_reference",
}

// RelationshipTypes lists every relationship type in declaration order.
func RelationshipTypes() []RelationshipType {
	return []RelationshipType{
		RelationSemanticSimilarity, RelationHierarchical, RelationComplementary,
		RelationConflicting, RelationTopicalGrouping, RelationCrossReference,
	}
}

func (r RelationshipType) String() string {
	return enumName(relationshipNames, int(r), "relationship")
}

// ParseRelationshipType parses a relationship type name.
func ParseRelationshipType(s string) (RelationshipType, error) {
	i, err := parseEnum(relationshipNames, s)
	if err != nil {
		return RelationSemanticSimilarity, fmt.Errorf("%w: relationship type %q", ErrUnknownValue, s)
	}
	return RelationshipType(i), nil
}

func (r RelationshipType) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *RelationshipType) UnmarshalText(text []byte) error {
	v, err := ParseRelationshipType(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// AnalysisMode is the depth of analysis the engine performed.
type AnalysisMode int

const (
	ModeLightweight AnalysisMode = iota
	ModeFull
)

var modeNames = []string{"lightweight", "full"}

func (m AnalysisMode) String() string {
	return enumName(modeNames, int(m), "mode")
}

func (m AnalysisMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *AnalysisMode) UnmarshalText(text []byte) error {
	i, err := parseEnum(modeNames, string(text))
	if err != nil {
		return fmt.Errorf("%w: analysis mode %q", ErrUnknownValue, string(text))
	}
	*m = AnalysisMode(i)
	return nil
}

func enumName(names []string, i int, kind string) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("%s(%d)", kind, i)
	}
	return names[i]
}

// parseEnum matches s against names ignoring case, '_', '-' and spaces.
func parseEnum(names []string, s string) (int, error) {
	want := canonicalEnum(s)
	for i, name := range names {
		if canonicalEnum(name) == want {
			return i, nil
		}
	}
	return -1, ErrUnknownValue
}

func canonicalEnum(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
