package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	orgerrors "github.com/matzehuels/orgdeps/pkg/errors"
)

// DefaultRequestTimeout bounds a single HTTP attempt.
const DefaultRequestTimeout = 10 * time.Second

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (connection errors, 5xx responses,
	// unexpected status codes).
	ErrNetwork = errors.New("network error")

	// ErrTimeout is returned when a single request exceeds its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrUnauthorized is returned for 401 responses: the token is missing,
	// expired or revoked.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned for 403 responses that are not rate limits,
	// typically a token lacking the required scopes.
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited is returned for 429 responses and for 403 responses
	// with an exhausted rate limit.
	ErrRateLimited = errors.New("rate limited")
)

// Code maps a transport error to an orgdeps error code. Unknown errors
// map to ErrCodeNetwork.
func Code(err error) orgerrors.Code {
	switch {
	case errors.Is(err, ErrNotFound):
		return orgerrors.ErrCodeNotFound
	case errors.Is(err, ErrUnauthorized):
		return orgerrors.ErrCodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return orgerrors.ErrCodeForbidden
	case errors.Is(err, ErrRateLimited):
		return orgerrors.ErrCodeRateLimited
	case errors.Is(err, ErrTimeout):
		return orgerrors.ErrCodeTimeout
	default:
		return orgerrors.ErrCodeNetwork
	}
}

// NewHTTPClient creates an HTTP client with the default request timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultRequestTimeout}
}

// URLEncode percent-encodes a string for use in URL paths.
// This is a convenience wrapper around [url.PathEscape].
func URLEncode(s string) string { return url.PathEscape(s) }
