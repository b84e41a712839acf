// Package github provides the GitHub API client used to scan an
// organization.
//
// # Overview
//
// Two operations are exposed:
//
//   - [Client.Repositories] walks every repository of an organization
//     through the GraphQL API, 100 per page, following the page cursor
//     until GitHub reports no further page.
//   - [Client.FetchManifest] reads one file through the REST contents API
//     and decodes it. It never fails: a missing file, an inaccessible
//     repository or any transport problem yields [manifest.Absent].
//
// # Usage
//
//	client := github.NewClient(github.Options{Token: token})
//
//	for name, err := range client.Repositories(ctx, "acme") {
//	    if err != nil {
//	        return err
//	    }
//	    res := client.FetchManifest(ctx, "acme", name, "package.json")
//	    // ...
//	}
//
// # Authentication
//
// A token is required for the GraphQL API. It is sent as a bearer token on
// every request and never written to logs or cache keys; cache entries are
// scoped by a truncated digest of it (see [cache.CredentialScope]).
//
// # Caching
//
// Manifest responses are cached when [Options.Cache] is set. Only
// definitive answers are stored: the decoded file, or "not found".
// Transient failures are never cached. Set [Options.Refresh] to bypass
// cached entries.
//
// [manifest.Absent]: github.com/matzehuels/orgdeps/pkg/manifest.Absent
// [cache.CredentialScope]: github.com/matzehuels/orgdeps/pkg/cache.CredentialScope
package github
