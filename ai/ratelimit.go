package ai

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedCompleter throttles calls to another ChatCompleter.
type RateLimitedCompleter struct {
	next    ChatCompleter
	limiter *rate.Limiter
}

// NewRateLimitedCompleter wraps next so that at most rps calls per second are
// made, with up to burst calls at once. A non-positive rps returns next as is.
func NewRateLimitedCompleter(next ChatCompleter, rps float64, burst int) ChatCompleter {
	if rps <= 0 || next == nil {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedCompleter{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Complete waits for a token, then delegates. Cancelling ctx while waiting
// returns the context error.
func (r *RateLimitedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("chat rate limit: %w", err)
	}
	return r.next.Complete(ctx, prompt)
}
