// Package observability provides hooks for metrics and logging.
//
// The scan pipeline and the GitHub client report what happened through
// these hooks instead of logging directly. This keeps the core packages
// free of any particular logging or metrics backend: the CLI registers a
// debug-logging implementation, and optionally the Prometheus one from
// package prom.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetScanHooks(&myScanHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Scan().OnListStart(ctx, org)
//	// ... walk the repository listing ...
//	observability.Scan().OnListComplete(ctx, org, repos, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// FetchOutcome classifies a manifest fetch.
type FetchOutcome string

const (
	// FetchPresent means the manifest was retrieved and decoded.
	FetchPresent FetchOutcome = "present"
	// FetchMissing means GitHub answered 404 for the manifest path.
	FetchMissing FetchOutcome = "missing"
	// FetchFailed covers every other failure (transport, status, decoding).
	// The repository still counts as having no manifest.
	FetchFailed FetchOutcome = "failed"
)

// =============================================================================
// Scan Hooks
// =============================================================================

// ScanHooks receives events from an organization scan.
type ScanHooks interface {
	// Listing events
	OnListStart(ctx context.Context, org string)
	OnPage(ctx context.Context, org string, page, names int)
	OnListComplete(ctx context.Context, org string, repos int, duration time.Duration, err error)

	// OnFetch reports the outcome of one manifest fetch. err carries the
	// reason for FetchFailed and is nil otherwise.
	OnFetch(ctx context.Context, org, repo string, outcome FetchOutcome, duration time.Duration, err error)

	// OnExtract reports a manifest parse. deps is the number of distinct
	// declared dependencies, or 0 when err is non-nil.
	OnExtract(ctx context.Context, repo string, deps int, err error)

	OnScanComplete(ctx context.Context, org string, repos, deps int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopScanHooks is a no-op implementation of ScanHooks.
type NoopScanHooks struct{}

func (NoopScanHooks) OnListStart(context.Context, string)                                {}
func (NoopScanHooks) OnPage(context.Context, string, int, int)                           {}
func (NoopScanHooks) OnListComplete(context.Context, string, int, time.Duration, error) {}
func (NoopScanHooks) OnFetch(context.Context, string, string, FetchOutcome, time.Duration, error) {
}
func (NoopScanHooks) OnExtract(context.Context, string, int, error) {}
func (NoopScanHooks) OnScanComplete(context.Context, string, int, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	scanHooks  ScanHooks  = NoopScanHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetScanHooks registers custom scan hooks.
// This should be called once at application startup before any scan.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	scanHooks = NoopScanHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
