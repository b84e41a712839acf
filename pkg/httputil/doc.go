// Package httputil provides HTTP utilities shared by the GitHub clients.
//
// # Retry
//
// [Retry] wraps an operation with automatic retry for transient failures:
//
//   - Network errors and per-request timeouts
//   - 5xx server errors
//   - 429 and secondary rate limit responses
//
// Only errors wrapped in [RetryableError] are retried; everything else
// (bad credentials, 404, malformed input) fails on the first attempt.
// The delay doubles after every attempt and is capped at one minute. A
// RetryableError carrying an After duration (taken from a Retry-After
// header) overrides the backoff for the next attempt.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return client.fetchPage(ctx, cursor)
//	})
//
// A [Policy] bundles the attempt count and initial delay so it can be
// configured once and passed around:
//
//	p := httputil.Policy{Attempts: 5, Delay: 500 * time.Millisecond}
//	err := p.Do(ctx, fn)
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Max attempts: 3
//   - Base backoff: 1 second
package httputil
