package similarity

import "errors"

var (
	// ErrInvalidWeights is returned when similarity weights are negative or all zero.
	ErrInvalidWeights = errors.New("invalid similarity weights")
)
