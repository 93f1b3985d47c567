package conflict

import "errors"

var (
	// ErrMalformedVerdict is returned when an LLM answer holds no usable JSON verdict.
	ErrMalformedVerdict = errors.New("malformed adjudication verdict")
)
