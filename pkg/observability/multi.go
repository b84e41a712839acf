package observability

import (
	"context"
	"time"
)

// MultiScan fans scan events out to several implementations, in order.
type MultiScan []ScanHooks

func (m MultiScan) OnListStart(ctx context.Context, org string) {
	for _, h := range m {
		h.OnListStart(ctx, org)
	}
}

func (m MultiScan) OnPage(ctx context.Context, org string, page, names int) {
	for _, h := range m {
		h.OnPage(ctx, org, page, names)
	}
}

func (m MultiScan) OnListComplete(ctx context.Context, org string, repos int, d time.Duration, err error) {
	for _, h := range m {
		h.OnListComplete(ctx, org, repos, d, err)
	}
}

func (m MultiScan) OnFetch(ctx context.Context, org, repo string, o FetchOutcome, d time.Duration, err error) {
	for _, h := range m {
		h.OnFetch(ctx, org, repo, o, d, err)
	}
}

func (m MultiScan) OnExtract(ctx context.Context, repo string, deps int, err error) {
	for _, h := range m {
		h.OnExtract(ctx, repo, deps, err)
	}
}

func (m MultiScan) OnScanComplete(ctx context.Context, org string, repos, deps int, d time.Duration, err error) {
	for _, h := range m {
		h.OnScanComplete(ctx, org, repos, deps, d, err)
	}
}

// MultiHTTP fans HTTP events out to several implementations.
type MultiHTTP []HTTPHooks

func (m MultiHTTP) OnRequest(ctx context.Context, method, host, path string) {
	for _, h := range m {
		h.OnRequest(ctx, method, host, path)
	}
}

func (m MultiHTTP) OnResponse(ctx context.Context, method, host, path string, status int, d time.Duration) {
	for _, h := range m {
		h.OnResponse(ctx, method, host, path, status, d)
	}
}

func (m MultiHTTP) OnError(ctx context.Context, method, host, path string, err error) {
	for _, h := range m {
		h.OnError(ctx, method, host, path, err)
	}
}

// MultiCache fans cache events out to several implementations.
type MultiCache []CacheHooks

func (m MultiCache) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m MultiCache) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m MultiCache) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}
