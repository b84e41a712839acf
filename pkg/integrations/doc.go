// Package integrations provides the shared HTTP client used by the GitHub
// API client in subpackage [github].
//
// # Client Pattern
//
// [Client] wraps net/http with the behavior every API call needs:
//
//   - default headers (authorization, API version) on every request
//   - a per-attempt timeout ([DefaultRequestTimeout] unless overridden)
//   - retries with exponential backoff for 5xx responses, timeouts and
//     rate limits, honoring Retry-After and X-RateLimit-Reset
//   - response caching through any [cache.Cache] backend
//
// Status codes map to sentinel errors ([ErrNotFound], [ErrUnauthorized],
// [ErrForbidden], [ErrRateLimited], [ErrTimeout], [ErrNetwork]); [Code]
// converts them to orgdeps error codes.
//
// [github]: github.com/matzehuels/orgdeps/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/orgdeps/pkg/cache.Cache
package integrations
