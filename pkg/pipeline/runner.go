package pipeline

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/orgdeps/pkg/manifest"
	"github.com/matzehuels/orgdeps/pkg/observability"
	"github.com/matzehuels/orgdeps/pkg/report"
	"github.com/matzehuels/orgdeps/pkg/usage"
)

// Lister enumerates the repositories of an organization.
// *github.Client implements it.
type Lister interface {
	Repositories(ctx context.Context, org string) iter.Seq2[string, error]
}

// Fetcher retrieves one manifest. It never fails; problems yield
// manifest.Absent. *github.Client implements it.
type Fetcher interface {
	FetchManifest(ctx context.Context, org, repo, path string) manifest.Result
}

// Runner executes scans. It holds no per-scan state, so one Runner can
// serve several scans, including concurrent ones.
type Runner struct {
	Lister  Lister
	Fetcher Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(l Lister, f Fetcher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Lister: l, Fetcher: f, Logger: logger}
}

// Execute scans opts.Organization and returns the ranked report.
// Listing errors and context cancellation abort the scan; no partial
// report is returned.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	hooks := observability.Scan()
	org := opts.Organization
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("org", org)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	table := usage.NewTable()
	commit := newCommitter(table, opts.Ignore)

	var g errgroup.Group
	g.SetLimit(opts.Concurrency)

	seen := make(map[string]struct{})
	var listErr error
	for name, err := range r.Lister.Repositories(ctx, org) {
		if err != nil {
			listErr = err
			break
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		seq := len(seen) - 1
		g.Go(func() error {
			commit.add(seq, r.scanRepository(ctx, org, name, opts.ManifestPath))
			return nil
		})
	}
	listTime := time.Since(start)

	if listErr != nil {
		cancel()
		g.Wait()
		hooks.OnScanComplete(ctx, org, len(seen), 0, time.Since(start), listErr)
		return nil, listErr
	}
	logger.Info("listed repositories", "count", len(seen), "duration", listTime)

	g.Wait()
	if err := ctx.Err(); err != nil {
		hooks.OnScanComplete(ctx, org, len(seen), 0, time.Since(start), err)
		return nil, err
	}

	entries := report.Rank(table)
	stats := commit.stats
	stats.Repositories = len(seen)
	stats.Dependencies = len(entries)
	stats.ListTime = listTime
	stats.Duration = time.Since(start)

	hooks.OnScanComplete(ctx, org, stats.Repositories, stats.Dependencies, stats.Duration, nil)
	logger.Info("scanned organization",
		"repositories", stats.Repositories,
		"manifests", stats.WithManifest,
		"absent", stats.Absent,
		"parse_failures", stats.ParseFailures,
		"dependencies", stats.Dependencies,
		"duration", stats.Duration)

	return &Result{
		Report: &report.Report{
			Organization: org,
			GeneratedAt:  time.Now().UTC(),
			RunID:        uuid.NewString(),
			Repositories: stats.Repositories,
			Entries:      entries,
		},
		Stats: stats,
	}, nil
}

// repoOutcome is what one repository contributes.
type repoOutcome struct {
	set         *manifest.Set
	present     bool
	parseFailed bool
}

func (r *Runner) scanRepository(ctx context.Context, org, repo, path string) repoOutcome {
	res := r.Fetcher.FetchManifest(ctx, org, repo, path)
	if !res.Present {
		return repoOutcome{set: manifest.NewSet()}
	}

	set, err := manifest.ExtractResult(res)
	observability.Scan().OnExtract(ctx, repo, set.Len(), err)
	if err != nil {
		return repoOutcome{set: manifest.NewSet(), present: true, parseFailed: true}
	}
	return repoOutcome{set: set, present: true}
}

// committer records outcomes into the table in listing order, whatever
// order the workers finish in.
type committer struct {
	mu      sync.Mutex
	table   *usage.Table
	ignore  usage.Ignore
	pending map[int]repoOutcome
	next    int
	stats   Stats
}

func newCommitter(t *usage.Table, ig usage.Ignore) *committer {
	return &committer{table: t, ignore: ig, pending: make(map[int]repoOutcome)}
}

func (c *committer) add(seq int, o repoOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending[seq] = o
	for {
		o, ok := c.pending[c.next]
		if !ok {
			return
		}
		delete(c.pending, c.next)
		c.next++

		switch {
		case o.parseFailed:
			c.stats.ParseFailures++
		case o.present:
			c.stats.WithManifest++
		default:
			c.stats.Absent++
		}
		c.stats.Recorded += c.table.Record(o.set, c.ignore)
	}
}
