package engine

import "errors"

var (
	// ErrInvalidConfig is returned when a Config fails validation. The
	// wrapping error names the offending key.
	ErrInvalidConfig = errors.New("invalid engine configuration")

	// ErrTargetNotFound is returned when a target id is not in the corpus.
	ErrTargetNotFound = errors.New("target document not found")
)
