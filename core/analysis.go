package core

import "time"

// MetricName identifies one component of a similarity score.
type MetricName string

const (
	MetricEntityOverlap   MetricName = "entity_overlap"
	MetricTopicOverlap    MetricName = "topic_overlap"
	MetricSemantic        MetricName = "semantic_similarity"
	MetricContentFeatures MetricName = "content_features"
	MetricHierarchical    MetricName = "hierarchical"
)

// SimilarityResult is the multi-signal comparison of two documents.
// It is never mutated after construction.
type SimilarityResult struct {
	DocAID         string                 `json:"doc_a_id"`
	DocBID         string                 `json:"doc_b_id"`
	Score          float64                `json:"similarity_score"`
	SharedEntities []string               `json:"shared_entities,omitempty"`
	SharedTopics   []string               `json:"shared_topics,omitempty"`
	Metrics        map[MetricName]float64 `json:"per_metric_scores,omitempty"`
}

// Swapped returns the same result oriented as (b, a).
func (r SimilarityResult) Swapped() SimilarityResult {
	r.DocAID, r.DocBID = r.DocBID, r.DocAID
	return r
}

// DocumentCluster is a named group of related documents.
type DocumentCluster struct {
	ID             string             `json:"cluster_id"`
	Name           string             `json:"name"`
	Strategy       ClusteringStrategy `json:"strategy"`
	DocumentIDs    []string           `json:"documents"`
	SharedEntities []string           `json:"shared_entities,omitempty"`
	SharedTopics   []string           `json:"shared_topics,omitempty"`
	Coherence      float64            `json:"coherence_score"`
}

// Size returns the number of member documents.
func (c *DocumentCluster) Size() int {
	return len(c.DocumentIDs)
}

// ClusterResult carries clusters together with the metadata of a clustering run.
type ClusterResult struct {
	Clusters    []DocumentCluster  `json:"clusters"`
	Unclustered []string           `json:"unclustered,omitempty"`
	Requested   ClusteringStrategy `json:"requested_strategy"`
	Strategy    ClusteringStrategy `json:"strategy"`
	Reason      string             `json:"reason,omitempty"` // Why the result is empty, if it is
}

// ConflictSnippet pairs the contradicting passages of two documents.
type ConflictSnippet struct {
	Doc1 string `json:"doc1_snippet"`
	Doc2 string `json:"doc2_snippet"`
}

// ConflictCandidate is a pair of documents that appear to contradict each other.
type ConflictCandidate struct {
	DocAID       string            `json:"doc_a_id"`
	DocBID       string            `json:"doc_b_id"`
	Kind         ConflictKind      `json:"conflict_type"`
	Confidence   float64           `json:"confidence"`
	Description  string            `json:"description"`
	Indicators   []string          `json:"indicators"`
	Snippets     []ConflictSnippet `json:"structured_snippets,omitempty"`
	LLMValidated bool              `json:"llm_validated,omitempty"`
}

// DocPair is an ordered pair of document ids.
type DocPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// ConflictAnalysis is the result of a conflict sweep.
type ConflictAnalysis struct {
	Pairs         []ConflictCandidate        `json:"conflicting_pairs"`
	Categories    map[ConflictKind][]DocPair `json:"conflict_categories"`
	Suggestions   map[ConflictKind]string    `json:"resolution_suggestions"`
	PairsExamined int                        `json:"pairs_examined"`
	Truncated     bool                       `json:"truncated"`
}

// RankedDocument is a document scored against some target.
type RankedDocument struct {
	Document *Document `json:"document"`
	Score    float64   `json:"score"`
	Reason   string    `json:"reason"`
}

// Relationship links a target document to another document.
type Relationship struct {
	SourceID    string           `json:"source_id"`
	TargetID    string           `json:"target_id"`
	Type        RelationshipType `json:"type"`
	Score       float64          `json:"score"`
	Description string           `json:"description"`
}

// RelationshipMap is the result of a single-target relationship query.
type RelationshipMap struct {
	TargetID      string                              `json:"target_id"`
	Relationships map[RelationshipType][]Relationship `json:"relationships"`
	PairsExamined int                                 `json:"pairs_examined"`
	Truncated     bool                                `json:"truncated"`
	Reason        string                              `json:"reason,omitempty"`
}

// SimilarityInsights summarizes a similarity matrix.
type SimilarityInsights struct {
	TotalPairs         int                `json:"total_pairs"`
	PairsEvaluated     int                `json:"pairs_evaluated"`
	Average            float64            `json:"average_similarity"`
	Min                float64            `json:"min_similarity"`
	Max                float64            `json:"max_similarity"`
	HighlySimilarPairs int                `json:"highly_similar_pairs"`
	TopPairs           []SimilarityResult `json:"top_pairs,omitempty"`
}

// AnalysisReport is the engine's answer to one analysis request.
// Degraded lists collaborators that were unavailable for this request.
type AnalysisReport struct {
	RequestID        string                      `json:"request_id"`
	Mode             AnalysisMode                `json:"mode"`
	TotalDocuments   int                         `json:"total_documents"`
	Similarity       SimilarityInsights          `json:"similarity_insights"`
	Clusters         []DocumentCluster           `json:"clusters,omitempty"`
	Unclustered      []string                    `json:"unclustered,omitempty"`
	Conflicts        *ConflictAnalysis           `json:"conflicts,omitempty"`
	Complementary    map[string][]RankedDocument `json:"complementary,omitempty"`
	Truncated        bool                        `json:"truncated"`
	TruncationReason string                      `json:"truncation_reason,omitempty"`
	Degraded         []string                    `json:"degraded,omitempty"`
	PairsEvaluated   int                         `json:"pairs_evaluated"`
	LLMCalls         int                         `json:"llm_calls"`
	Elapsed          time.Duration               `json:"elapsed"`
}
