package engine

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/docintel/cluster"
	"github.com/poiesic/docintel/core"
	"github.com/poiesic/docintel/similarity"
)

// Config holds the engine tunables. Field tags match the configuration keys.
type Config struct {
	// MaxClusters caps the clusters of one request. Zero means no cap.
	MaxClusters int `toml:"max_clusters"`

	// MinClusterSize is the smallest group reported as a cluster.
	MinClusterSize int `toml:"min_cluster_size"`

	// ClusteringStrategy is the default admission rule for clustering.
	ClusteringStrategy core.ClusteringStrategy `toml:"clustering_strategy"`

	// SimilarityWeights are the per-signal weights of the similarity score.
	SimilarityWeights similarity.Weights `toml:"similarity_weights"`

	// OverallTimeoutS is the wall-clock budget of a request in seconds.
	OverallTimeoutS float64 `toml:"overall_timeout_s"`

	// MaxPairsTotal caps the document pairs scored in one request.
	MaxPairsTotal int `toml:"max_pairs_total"`

	// MaxLLMPairs caps conflict adjudication calls in one request.
	MaxLLMPairs int `toml:"max_llm_pairs"`

	// TextWindowChars bounds the characters of each document fed to
	// lexical and LLM analysis. Zero means the whole text.
	TextWindowChars int `toml:"text_window_chars"`

	// LightweightThresholdDocuments selects lightweight mode for corpora
	// with fewer documents.
	LightweightThresholdDocuments int `toml:"lightweight_threshold_documents"`

	// EnableLLMValidation allows conflict adjudication when a chat
	// completer is configured.
	EnableLLMValidation bool `toml:"enable_llm_validation"`

	// SimilarityThreshold is the mixed-feature clustering admission score.
	SimilarityThreshold float64 `toml:"similarity_threshold"`

	// HighSimilarityThreshold marks a pair as highly similar in the insights.
	HighSimilarityThreshold float64 `toml:"high_similarity_threshold"`

	// ComplementaryLimit caps the recommendations per target. Zero means all.
	ComplementaryLimit int `toml:"complementary_limit"`

	// CollaboratorTimeoutS bounds each vector store or chat call in seconds.
	CollaboratorTimeoutS float64 `toml:"collaborator_timeout_s"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithMaxClusters sets the cluster cap.
func WithMaxClusters(n int) ConfigOption {
	return func(c *Config) {
		c.MaxClusters = n
	}
}

// WithMinClusterSize sets the smallest reported cluster.
func WithMinClusterSize(n int) ConfigOption {
	return func(c *Config) {
		c.MinClusterSize = n
	}
}

// WithClusteringStrategy sets the default clustering strategy.
func WithClusteringStrategy(strategy core.ClusteringStrategy) ConfigOption {
	return func(c *Config) {
		c.ClusteringStrategy = strategy
	}
}

// WithSimilarityWeights sets the similarity weights.
func WithSimilarityWeights(w similarity.Weights) ConfigOption {
	return func(c *Config) {
		c.SimilarityWeights = w
	}
}

// WithOverallTimeout sets the request deadline.
func WithOverallTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.OverallTimeoutS = d.Seconds()
	}
}

// WithMaxPairsTotal sets the pair budget.
func WithMaxPairsTotal(n int) ConfigOption {
	return func(c *Config) {
		c.MaxPairsTotal = n
	}
}

// WithMaxLLMPairs sets the adjudication budget.
func WithMaxLLMPairs(n int) ConfigOption {
	return func(c *Config) {
		c.MaxLLMPairs = n
	}
}

// WithTextWindowChars sets the per-document text window.
func WithTextWindowChars(n int) ConfigOption {
	return func(c *Config) {
		c.TextWindowChars = n
	}
}

// WithLightweightThreshold sets the corpus size below which requests run
// in lightweight mode.
func WithLightweightThreshold(n int) ConfigOption {
	return func(c *Config) {
		c.LightweightThresholdDocuments = n
	}
}

// WithLLMValidation turns conflict adjudication on or off.
func WithLLMValidation(enabled bool) ConfigOption {
	return func(c *Config) {
		c.EnableLLMValidation = enabled
	}
}

// WithComplementaryLimit sets the recommendations per target.
func WithComplementaryLimit(n int) ConfigOption {
	return func(c *Config) {
		c.ComplementaryLimit = n
	}
}

// WithCollaboratorTimeout sets the per-call collaborator timeout.
func WithCollaboratorTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.CollaboratorTimeoutS = d.Seconds()
	}
}

// DefaultConfig returns the stock budgets and weights.
func DefaultConfig() Config {
	return Config{
		MaxClusters:                   10,
		MinClusterSize:                2,
		ClusteringStrategy:            core.StrategyMixedFeatures,
		SimilarityWeights:             similarity.DefaultWeights(),
		OverallTimeoutS:               30,
		MaxPairsTotal:                 500,
		MaxLLMPairs:                   10,
		TextWindowChars:               similarity.DefaultTextWindow,
		LightweightThresholdDocuments: 3,
		EnableLLMValidation:           true,
		SimilarityThreshold:           cluster.DefaultSimilarityThreshold,
		HighSimilarityThreshold:       0.7,
		ComplementaryLimit:            5,
		CollaboratorTimeoutS:          10,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithMaxPairsTotal(200),
//	    WithOverallTimeout(5*time.Second),
//	    WithLLMValidation(false),
//	)
func NewConfig(opts ...ConfigOption) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// LoadConfig reads a TOML file over the defaults. Keys missing from the file
// keep their default value; unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening engine config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects negative budgets and out-of-range thresholds.
func (c Config) Validate() error {
	invalid := func(key string, value any, rule string) error {
		return fmt.Errorf("%w: %s %s, got %v", ErrInvalidConfig, key, rule, value)
	}

	switch {
	case c.MaxClusters < 0:
		return invalid("max_clusters", c.MaxClusters, "cannot be negative")
	case c.MinClusterSize < 1:
		return invalid("min_cluster_size", c.MinClusterSize, "must be at least 1")
	case c.ClusteringStrategy < core.StrategyMixedFeatures || c.ClusteringStrategy > core.StrategyAdaptive:
		return invalid("clustering_strategy", int(c.ClusteringStrategy), "is unknown")
	case c.OverallTimeoutS <= 0:
		return invalid("overall_timeout_s", c.OverallTimeoutS, "must be positive")
	case c.MaxPairsTotal < 1:
		return invalid("max_pairs_total", c.MaxPairsTotal, "must be positive")
	case c.MaxLLMPairs < 0:
		return invalid("max_llm_pairs", c.MaxLLMPairs, "cannot be negative")
	case c.TextWindowChars < 0:
		return invalid("text_window_chars", c.TextWindowChars, "cannot be negative")
	case c.LightweightThresholdDocuments < 0:
		return invalid("lightweight_threshold_documents", c.LightweightThresholdDocuments, "cannot be negative")
	case c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1:
		return invalid("similarity_threshold", c.SimilarityThreshold, "must be within [0, 1]")
	case c.HighSimilarityThreshold < 0 || c.HighSimilarityThreshold > 1:
		return invalid("high_similarity_threshold", c.HighSimilarityThreshold, "must be within [0, 1]")
	case c.ComplementaryLimit < 0:
		return invalid("complementary_limit", c.ComplementaryLimit, "cannot be negative")
	case c.CollaboratorTimeoutS <= 0:
		return invalid("collaborator_timeout_s", c.CollaboratorTimeoutS, "must be positive")
	}

	if err := c.SimilarityWeights.Validate(); err != nil {
		return fmt.Errorf("%w: similarity_weights: %w", ErrInvalidConfig, err)
	}
	return nil
}

// OverallTimeout returns the request deadline as a duration.
func (c Config) OverallTimeout() time.Duration {
	return seconds(c.OverallTimeoutS)
}

// CollaboratorTimeout returns the per-call timeout as a duration.
func (c Config) CollaboratorTimeout() time.Duration {
	return seconds(c.CollaboratorTimeoutS)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (c Config) clusterOptions(strategy core.ClusteringStrategy) cluster.Options {
	return cluster.Options{
		Strategy:            strategy,
		MaxClusters:         c.MaxClusters,
		MinClusterSize:      c.MinClusterSize,
		SimilarityThreshold: c.SimilarityThreshold,
	}
}
