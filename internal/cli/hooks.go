package cli

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgdeps/pkg/observability"
)

// logHooks reports scan, HTTP and cache events at debug level.
// Paths are logged without query strings; credentials never reach hooks.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnListStart(_ context.Context, org string) {
	h.logger.Debug("listing repositories", "org", org)
}

func (h logHooks) OnPage(_ context.Context, org string, page, names int) {
	h.logger.Debug("listing page", "org", org, "page", page, "repositories", names)
}

func (h logHooks) OnListComplete(_ context.Context, org string, repos int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("listing failed", "org", org, "after", repos, "err", err)
		return
	}
	h.logger.Debug("listing complete", "org", org, "repositories", repos, "duration", d)
}

func (h logHooks) OnFetch(_ context.Context, org, repo string, o observability.FetchOutcome, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("manifest fetch failed", "repo", org+"/"+repo, "duration", d, "err", err)
		return
	}
	h.logger.Debug("manifest fetched", "repo", org+"/"+repo, "outcome", o, "duration", d)
}

func (h logHooks) OnExtract(_ context.Context, repo string, deps int, err error) {
	if err != nil {
		h.logger.Debug("malformed manifest", "repo", repo, "err", err)
		return
	}
	h.logger.Debug("dependencies extracted", "repo", repo, "count", deps)
}

func (h logHooks) OnScanComplete(_ context.Context, org string, repos, deps int, d time.Duration, err error) {
	h.logger.Debug("scan complete", "org", org, "repositories", repos, "dependencies", deps, "duration", d, "err", err)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// scanProgress feeds listing and fetch counts into the spinner message.
type scanProgress struct {
	observability.NoopScanHooks
	spinner *Spinner
	org     string
	listed  atomic.Int64
	fetched atomic.Int64
	found   atomic.Int64
}

func newScanProgress(s *Spinner, org string) *scanProgress {
	return &scanProgress{spinner: s, org: org}
}

func (p *scanProgress) OnPage(_ context.Context, _ string, _, names int) {
	p.listed.Add(int64(names))
	p.update()
}

func (p *scanProgress) OnFetch(_ context.Context, _, _ string, o observability.FetchOutcome, _ time.Duration, _ error) {
	p.fetched.Add(1)
	if o == observability.FetchPresent {
		p.found.Add(1)
	}
	p.update()
}

func (p *scanProgress) message() string {
	return fmt.Sprintf("Scanning %s: %d repositories listed, %d checked, %d package.json found",
		p.org, p.listed.Load(), p.fetched.Load(), p.found.Load())
}

func (p *scanProgress) update() {
	if p.spinner != nil {
		p.spinner.SetMessage(p.message())
	}
}
