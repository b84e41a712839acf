// Package pkg provides the libraries behind orgdeps, which counts how many
// repositories of a GitHub organization declare each npm dependency.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Domain: [manifest], [usage], [report]
//  2. Infrastructure: [cache], [httputil], [observability], [config]
//  3. Integrations and orchestration: [integrations/github], [pipeline]
//
// # Data Flow
//
//	GitHub GraphQL (repository listing, paginated)
//	         ↓
//	GitHub REST contents API (package.json per repository)
//	         ↓
//	    [manifest] package (dependency names per repository)
//	         ↓
//	    [usage] package (per-repository counts, ignore filter)
//	         ↓
//	    [report] package (ranking, CSV/JSON/table output)
//
// # Quick Start
//
//	client := github.NewClient(github.Options{Token: os.Getenv("GITHUB_TOKEN")})
//	runner := pipeline.NewRunner(client, client, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Organization: "acme",
//	    Ignore:       usage.Ignore{"@acme"},
//	})
//	if err != nil {
//	    return err
//	}
//	return report.ExportCSV(result.Report.Entries, "deps.csv")
//
// # Errors
//
// Fallible operations return [errors.Error] values carrying a machine
// readable code; see [errors.GetCode] and [errors.UserMessage].
//
// [manifest]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/manifest
// [usage]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/usage
// [report]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/report
// [cache]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/observability
// [config]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/config
// [integrations/github]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/integrations/github
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/pipeline
// [errors.Error]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/errors#Error
// [errors.GetCode]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/errors#GetCode
// [errors.UserMessage]: https://pkg.go.dev/github.com/matzehuels/orgdeps/pkg/errors#UserMessage
package pkg
