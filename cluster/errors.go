package cluster

import "errors"

var (
	// ErrComparerRequired is returned when an analyzer is created without a comparer.
	ErrComparerRequired = errors.New("similarity comparer is required")
)
