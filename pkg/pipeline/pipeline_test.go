package pipeline

import (
	"context"
	"fmt"
	"io"
	"iter"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgdeps/pkg/errors"
	"github.com/matzehuels/orgdeps/pkg/manifest"
	"github.com/matzehuels/orgdeps/pkg/report"
	"github.com/matzehuels/orgdeps/pkg/usage"
)

// fakeOrg serves a fixed listing and fixed manifests, counting calls.
type fakeOrg struct {
	names   []string
	listErr error // yielded after all names

	manifests map[string]string // repo -> package.json; missing = Absent
	jitter    bool

	mu      sync.Mutex
	fetches map[string]int
}

func (f *fakeOrg) Repositories(ctx context.Context, org string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, n := range f.names {
			if !yield(n, nil) {
				return
			}
		}
		if f.listErr != nil {
			yield("", f.listErr)
		}
	}
}

func (f *fakeOrg) FetchManifest(ctx context.Context, org, repo, path string) manifest.Result {
	f.mu.Lock()
	if f.fetches == nil {
		f.fetches = map[string]int{}
	}
	f.fetches[repo]++
	f.mu.Unlock()

	if f.jitter {
		time.Sleep(time.Duration(rand.IntN(3)) * time.Millisecond)
	}
	body, ok := f.manifests[repo]
	if !ok {
		return manifest.Absent()
	}
	return manifest.Present([]byte(body))
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func run(t *testing.T, f *fakeOrg, opts Options) (*Result, error) {
	t.Helper()
	if opts.Organization == "" {
		opts.Organization = "acme"
	}
	return NewRunner(f, f, quietLogger()).Execute(context.Background(), opts)
}

func deps(names ...string) string {
	s := `{"dependencies":{`
	for i, n := range names {
		if i > 0 {
			s += ","
		}
		s += fmt.Sprintf("%q:\"1.0.0\"", n)
	}
	return s + "}}"
}

func TestExecuteRunnerWithoutLogger(t *testing.T) {
	f := &fakeOrg{
		names:     []string{"web"},
		manifests: map[string]string{"web": deps("react")},
	}
	r := &Runner{Lister: f, Fetcher: f}

	res, err := r.Execute(context.Background(), Options{Organization: "acme"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Report.Entries) != 1 || res.Report.Entries[0].Name != "react" {
		t.Errorf("Entries = %+v", res.Report.Entries)
	}
}

func TestExecuteEmptyOrganization(t *testing.T) {
	res, err := run(t, &fakeOrg{}, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(res.Report.Entries) != 0 {
		t.Errorf("entries = %v, want none", res.Report.Entries)
	}
	if res.Stats.Repositories != 0 || res.Report.Repositories != 0 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Report.RunID == "" || res.Report.Organization != "acme" {
		t.Errorf("report metadata = %+v", res.Report)
	}
}

func TestExecuteCountsAndRanks(t *testing.T) {
	f := &fakeOrg{
		names: []string{"web", "api", "docs", "admin"},
		manifests: map[string]string{
			"web":   `{"dependencies":{"react":"18","@acme/ui":"1"},"devDependencies":{"jest":"29"}}`,
			"api":   `{"dependencies":{"express":"4"},"devDependencies":{"jest":"29","typescript":"5"}}`,
			"admin": `{"dependencies":{"react":"18","@acme/ui":"1","express":"4"},"devDependencies":{"jest":"29"}}`,
		},
	}
	res, err := run(t, f, Options{Ignore: usage.Ignore{"@acme"}})
	if err != nil {
		t.Fatal(err)
	}

	want := []report.Entry{{Name: "jest", Count: 3}, {Name: "react", Count: 2}, {Name: "express", Count: 2}, {Name: "typescript", Count: 1}}
	if !slices.Equal(res.Report.Entries, want) {
		t.Errorf("entries = %v, want %v", res.Report.Entries, want)
	}
	if res.Stats.WithManifest != 3 || res.Stats.Absent != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	total := 0
	for _, e := range res.Report.Entries {
		total += e.Count
	}
	if total != res.Stats.Recorded {
		t.Errorf("sum of counts = %d, recorded = %d", total, res.Stats.Recorded)
	}
}

func TestExecuteProcessesEachRepositoryOnce(t *testing.T) {
	f := &fakeOrg{
		names:     []string{"a", "b", "a", "c", "b"},
		manifests: map[string]string{"a": deps("x"), "b": deps("x"), "c": deps("x")},
	}
	res, err := run(t, f, Options{Concurrency: 4})
	if err != nil {
		t.Fatal(err)
	}
	for name, n := range f.fetches {
		if n != 1 {
			t.Errorf("%s fetched %d times, want 1", name, n)
		}
	}
	if len(f.fetches) != 3 {
		t.Errorf("fetched %d repositories, want 3", len(f.fetches))
	}
	if got := res.Report.Entries; len(got) != 1 || got[0].Count != 3 {
		t.Errorf("entries = %v, want [x:3]", got)
	}
	if res.Stats.Repositories != 3 {
		t.Errorf("Repositories = %d, want 3", res.Stats.Repositories)
	}
}

func TestExecutePartialFailure(t *testing.T) {
	// The second repository's fetch fails, which the fetcher reports as Absent.
	f := &fakeOrg{
		names: []string{"one", "two", "three"},
		manifests: map[string]string{
			"one":   deps("react", "lodash"),
			"three": deps("react"),
		},
	}
	res, err := run(t, f, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want := []report.Entry{{Name: "react", Count: 2}, {Name: "lodash", Count: 1}}
	if !slices.Equal(res.Report.Entries, want) {
		t.Errorf("entries = %v, want %v", res.Report.Entries, want)
	}
	if res.Stats.Absent != 1 {
		t.Errorf("Absent = %d, want 1", res.Stats.Absent)
	}
}

func TestExecuteMalformedManifest(t *testing.T) {
	f := &fakeOrg{
		names: []string{"one", "two", "three"},
		manifests: map[string]string{
			"one":   deps("react"),
			"two":   `{"dependencies": {`,
			"three": deps("react"),
		},
	}
	res, err := run(t, f, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Stats.ParseFailures != 1 {
		t.Errorf("ParseFailures = %d, want 1", res.Stats.ParseFailures)
	}
	if want := []report.Entry{{Name: "react", Count: 2}}; !slices.Equal(res.Report.Entries, want) {
		t.Errorf("entries = %v, want %v", res.Report.Entries, want)
	}
}

func TestExecuteListingFailureAborts(t *testing.T) {
	listErr := errors.New(errors.ErrCodeUnauthorized, "list repositories of acme: bad credentials")
	f := &fakeOrg{
		names:     []string{"web"},
		manifests: map[string]string{"web": deps("react")},
		listErr:   listErr,
	}
	res, err := run(t, f, Options{})
	if err == nil {
		t.Fatal("Execute() should fail")
	}
	if res != nil {
		t.Errorf("no partial report expected, got %+v", res.Report)
	}
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Errorf("error = %v, want UNAUTHORIZED", err)
	}
}

func TestExecuteConcurrentMatchesSequential(t *testing.T) {
	names := make([]string, 60)
	manifests := map[string]string{}
	pool := []string{"react", "vue", "lodash", "jest", "express", "axios", "zod"}
	for i := range names {
		names[i] = fmt.Sprintf("repo-%02d", i)
		if i%7 == 3 {
			continue
		}
		var ds []string
		for j, p := range pool {
			if (i+j)%3 == 0 || (i*j)%5 == 1 {
				ds = append(ds, p)
			}
		}
		manifests[names[i]] = deps(ds...)
	}

	seq, err := run(t, &fakeOrg{names: names, manifests: manifests}, Options{Concurrency: 1})
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		par, err := run(t, &fakeOrg{names: names, manifests: manifests, jitter: true}, Options{Concurrency: 16})
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(par.Report.Entries, seq.Report.Entries) {
			t.Fatalf("concurrent entries = %v\nsequential = %v", par.Report.Entries, seq.Report.Entries)
		}
		if par.Stats.Recorded != seq.Stats.Recorded {
			t.Errorf("Recorded = %d, want %d", par.Stats.Recorded, seq.Stats.Recorded)
		}
	}
}

func TestExecuteCancelled(t *testing.T) {
	f := &fakeOrg{names: []string{"a", "b"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewRunner(f, f, quietLogger()).Execute(ctx, Options{Organization: "acme"})
	if err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if res != nil {
		t.Error("cancelled scan should not return a report")
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
	}{
		{"defaults", Options{Organization: "acme"}, ""},
		{"missing organization", Options{}, errors.ErrCodeInvalidInput},
		{"invalid organization", Options{Organization: "-acme"}, errors.ErrCodeInvalidInput},
		{"nested manifest", Options{Organization: "acme", ManifestPath: "web/package.json"}, ""},
		{"wrong manifest", Options{Organization: "acme", ManifestPath: "go.mod"}, errors.ErrCodeInvalidManifest},
		{"traversal", Options{Organization: "acme", ManifestPath: "../package.json"}, errors.ErrCodeInvalidPath},
		{"too many workers", Options{Organization: "acme", Concurrency: MaxConcurrency + 1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if got := errors.GetCode(err); got != tt.wantCode {
				t.Fatalf("code = %q, want %q (%v)", got, tt.wantCode, err)
			}
			if err != nil {
				return
			}
			if opts.ManifestPath == "" || opts.Concurrency <= 0 {
				t.Errorf("defaults not applied: %+v", opts)
			}
		})
	}
}

func TestCommitterRecordsInOrder(t *testing.T) {
	table := usage.NewTable()
	c := newCommitter(table, nil)

	c.add(2, repoOutcome{set: manifest.NewSet("c"), present: true})
	c.add(1, repoOutcome{set: manifest.NewSet("b"), present: true})
	if table.Len() != 0 {
		t.Fatal("nothing should be recorded before sequence 0 arrives")
	}
	c.add(0, repoOutcome{set: manifest.NewSet("a"), present: true})

	var got []string
	for name := range table.All() {
		got = append(got, name)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("first-seen order = %v, want %v", got, want)
	}
	if c.stats.WithManifest != 3 {
		t.Errorf("WithManifest = %d", c.stats.WithManifest)
	}
}
