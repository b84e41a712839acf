// Package cache stores GitHub manifest responses.
//
// # Overview
//
// Scanning a large organization issues one contents request per repository.
// Only definitive answers (file content, or "no such file") are cached;
// transient failures never are. The CLI keeps them in memory for a single
// run, so a rerun sees the organization as it is now. The persistent
// backends trade that for speed and must be chosen explicitly.
//
// # Backends
//
//   - [MemoryCache]: bounded in-process LRU (CLI default)
//   - [FileCache]: JSON files under ~/.cache/orgdeps
//   - [RedisCache]: shared cache for several machines or CI runners
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] derives keys from (organization, repository, path). Wrap it in
// [NewScopedKeyer] to keep entries fetched with different credentials apart,
// so private manifests never leak between tokens that share a backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the data stored under key. A miss (absent or expired)
	// reports false with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
