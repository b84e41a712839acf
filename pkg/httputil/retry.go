package httputil

import (
	"context"
	"errors"
	"time"
)

// Default retry settings used by [DefaultPolicy].
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second

	// maxDelay caps both the doubled backoff and server-provided hints.
	maxDelay = time.Minute
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses, rate limits)
// with this type so that [Retry] knows to attempt the operation again.
//
// After, when positive, is the server's requested wait (e.g. Retry-After)
// and replaces the backoff delay for the next attempt.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a [RetryableError]. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Policy describes how many times an operation is attempted and the
// initial delay between attempts.
type Policy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultPolicy returns the policy clients use unless configured otherwise.
func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, Delay: DefaultDelay}
}

// Do runs fn under the policy. See [Retry].
func (p Policy) Do(ctx context.Context, fn func() error) error {
	return Retry(ctx, p.Attempts, p.Delay, fn)
}

// Retry executes fn up to attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. The delay doubles after each failed attempt.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		re, ok := asRetryable(err)
		if !ok {
			return err
		}

		if i < attempts-1 {
			wait := delay
			if re.After > 0 {
				wait = re.After
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(min(wait, maxDelay)):
				delay = min(delay*2, maxDelay)
			}
		}
	}
	return lastErr
}

func asRetryable(err error) (*RetryableError, bool) {
	var re *RetryableError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
