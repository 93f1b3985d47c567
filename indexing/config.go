package indexing

import (
	"fmt"
	"time"

	"github.com/poiesic/docintel/similarity"
)

// Config holds configuration for an indexing run.
type Config struct {
	// BatchSize is the number of documents sent to the embedder per call
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// TextWindow bounds the characters of each document that are embedded
	TextWindow int

	// Model is recorded on each stored embedding
	Model string

	// Reindex embeds every document even if a record for the same model exists
	Reindex bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      32,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		TextWindow:     similarity.DefaultTextWindow,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.BatchSize < 1:
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	case c.ReportInterval < 1:
		return fmt.Errorf("%w: report interval must be positive, got %d", ErrInvalidConfig, c.ReportInterval)
	case c.MaxRetries < 1:
		return fmt.Errorf("%w: max retries must be positive, got %d", ErrInvalidConfig, c.MaxRetries)
	case c.RetryDelay < 0:
		return fmt.Errorf("%w: retry delay cannot be negative, got %v", ErrInvalidConfig, c.RetryDelay)
	case c.TextWindow < 1:
		return fmt.Errorf("%w: text window must be positive, got %d", ErrInvalidConfig, c.TextWindow)
	}
	return nil
}
