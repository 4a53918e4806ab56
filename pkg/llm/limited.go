package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"keyword-scout/pkg/retry"
)

// Limited throttles a generator with a token bucket and retries transient
// failures with exponential backoff. A stream is only retried while no
// chunk has been delivered.
type Limited struct {
	next    Generator
	limiter *rate.Limiter
	retry   *retry.SimpleRetry
}

// NewLimited allows requestsPerMinute calls with the given burst. A
// non-positive rate disables throttling.
func NewLimited(next Generator, requestsPerMinute, burst, maxRetries int, retryDelay time.Duration) *Limited {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60.0)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limited{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
		retry:   retry.NewSimpleRetry(maxRetries, retryDelay),
	}
}

func (l *Limited) Generate(ctx context.Context, p Prompt) (string, error) {
	var out string
	err := l.retry.Execute(ctx, func() error {
		if err := l.limiter.Wait(ctx); err != nil {
			return retry.Permanent(err)
		}
		var err error
		out, err = l.next.Generate(ctx, p)
		return err
	})
	return out, err
}

func (l *Limited) Stream(ctx context.Context, p Prompt, fn func(chunk string) error) error {
	return l.retry.Execute(ctx, func() error {
		if err := l.limiter.Wait(ctx); err != nil {
			return retry.Permanent(err)
		}

		var sent bool
		var callbackErr error
		err := l.next.Stream(ctx, p, func(chunk string) error {
			sent = true
			if err := fn(chunk); err != nil {
				callbackErr = err
				return err
			}
			return nil
		})
		if err != nil && (sent || callbackErr != nil) {
			return retry.Permanent(err)
		}
		return err
	})
}
