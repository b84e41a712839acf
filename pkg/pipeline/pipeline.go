// Package pipeline scans a GitHub organization and builds the dependency
// usage report.
//
// # Stages
//
//  1. List: walk every repository of the organization.
//  2. Fetch: retrieve each repository's package.json.
//  3. Extract: parse the declared dependency names.
//  4. Record: count each name once per repository, minus ignored names.
//  5. Rank: order the counts, highest first.
//
// Fetch and extract run on a bounded pool of workers. Their results are
// recorded strictly in listing order, so the report is the same whatever
// the concurrency.
//
// A listing failure aborts the run without a report. A repository whose
// manifest is missing, unreadable or malformed counts as declaring no
// dependencies.
//
// # Usage
//
//	client := github.NewClient(github.Options{Token: token})
//	runner := pipeline.NewRunner(client, client, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Organization: "acme",
//	    Ignore:       usage.Ignore{"@acme"},
//	})
//	if err != nil {
//	    return err
//	}
//	report.WriteCSV(os.Stdout, result.Report.Entries)
package pipeline

import (
	"time"

	"github.com/matzehuels/orgdeps/pkg/errors"
	"github.com/matzehuels/orgdeps/pkg/integrations/github"
	"github.com/matzehuels/orgdeps/pkg/report"
	"github.com/matzehuels/orgdeps/pkg/usage"
)

const (
	// DefaultManifestPath is read from every repository unless overridden.
	DefaultManifestPath = errors.ManifestBasename

	// DefaultConcurrency is the number of repositories fetched at once.
	DefaultConcurrency = 8

	// MaxConcurrency bounds Options.Concurrency.
	MaxConcurrency = 64
)

// Options configures one scan.
type Options struct {
	// Organization is the GitHub organization login. Required.
	Organization string

	// Ignore drops dependency names containing any of its substrings.
	Ignore usage.Ignore

	// ManifestPath is the repository-relative path of the manifest;
	// it must name a package.json file.
	ManifestPath string

	// Concurrency is the number of repositories processed at once;
	// 1 processes them sequentially.
	Concurrency int
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if err := github.ValidateOwner(o.Organization); err != nil {
		return err
	}
	if o.ManifestPath == "" {
		o.ManifestPath = DefaultManifestPath
	}
	if err := errors.ValidateManifestPath(o.ManifestPath); err != nil {
		return err
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Concurrency > MaxConcurrency {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency %d exceeds the maximum of %d", o.Concurrency, MaxConcurrency)
	}
	return nil
}

// Stats summarizes a scan.
type Stats struct {
	Repositories  int // repositories listed
	WithManifest  int // manifest found and parsed
	Absent        int // no readable manifest
	ParseFailures int // manifest found but not valid JSON
	Recorded      int // name increments, after the ignore filter
	Dependencies  int // distinct names in the report

	ListTime time.Duration
	Duration time.Duration
}

// Result holds the report and statistics of a scan.
type Result struct {
	Report *report.Report
	Stats  Stats
}
