package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// StatusError carries an upstream HTTP status so retry decisions do not
// depend on parsing error text.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as final so Execute returns it without retrying.
// errors.Is and errors.As still see the wrapped error.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// SimpleRetry retries a function with exponential backoff.
type SimpleRetry struct {
	maxRetries        int
	retryDelay        time.Duration
	maxDelay          time.Duration
	backoffMultiplier float64
}

// NewSimpleRetry allows maxRetries attempts after the first one.
func NewSimpleRetry(maxRetries int, retryDelay time.Duration) *SimpleRetry {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &SimpleRetry{
		maxRetries:        maxRetries,
		retryDelay:        retryDelay,
		maxDelay:          30 * time.Second,
		backoffMultiplier: 2.0,
	}
}

// Execute runs fn until it succeeds, returns a non-retryable error, the
// retries are exhausted or ctx is done.
func (sr *SimpleRetry) Execute(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= sr.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == sr.maxRetries {
			break
		}
		if !IsRetryable(err) {
			return err
		}

		timer := time.NewTimer(sr.Delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// Delay is the wait before retry number attempt+1.
func (sr *SimpleRetry) Delay(attempt int) time.Duration {
	delay := time.Duration(float64(sr.retryDelay) * math.Pow(sr.backoffMultiplier, float64(attempt)))
	if delay > sr.maxDelay {
		return sr.maxDelay
	}
	return delay
}

// IsRetryable treats network faults, timeouts, 429 and 5xx as transient.
// Auth and other client errors are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var permanent *permanentError
	if errors.As(err, &permanent) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == 429 || statusErr.StatusCode >= 500
	}

	errStr := strings.ToLower(err.Error())
	for _, final := range []string{"401", "403", "unauthorized", "forbidden", "400", "404", "invalid api key"} {
		if strings.Contains(errStr, final) {
			return false
		}
	}
	return true
}
