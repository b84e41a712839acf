package github

import (
	"strings"
	"time"

	"github.com/matzehuels/orgdeps/pkg/buildinfo"
	"github.com/matzehuels/orgdeps/pkg/cache"
	"github.com/matzehuels/orgdeps/pkg/httputil"
	"github.com/matzehuels/orgdeps/pkg/integrations"
)

const (
	// DefaultBaseURL is the REST API root.
	DefaultBaseURL = "https://api.github.com"

	// APIVersion is sent as X-GitHub-Api-Version.
	APIVersion = "2022-11-28"

	// MaxPageSize is the largest page the GraphQL API serves.
	MaxPageSize = 100
)

// Options configures a [Client]. Only Token is normally set; the rest
// have working defaults.
type Options struct {
	Token string

	// BaseURL is the REST API root. GraphQLURL defaults to BaseURL+"/graphql".
	BaseURL    string
	GraphQLURL string

	// Cache stores manifest responses for CacheTTL. Nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration
	// Keyer derives cache keys; defaults to keys scoped by Token.
	Keyer cache.Keyer
	// Refresh ignores cached entries but still writes fresh ones.
	Refresh bool

	Retry          httputil.Policy
	RequestTimeout time.Duration

	// PageSize is the number of repositories per listing page (1-100).
	PageSize int
}

// Client provides access to the GitHub API for organization scans.
// It handles HTTP requests with caching, automatic retries and
// authentication.
type Client struct {
	*integrations.Client
	baseURL    string
	graphqlURL string
	keyer      cache.Keyer
	refresh    bool
	pageSize   int
}

// NewClient creates a GitHub API client.
func NewClient(opts Options) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": APIVersion,
		"User-Agent":           buildinfo.UserAgent(),
	}
	if opts.Token != "" {
		headers["Authorization"] = "Bearer " + opts.Token
	}

	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	gql := opts.GraphQLURL
	if gql == "" {
		gql = base + "/graphql"
	}
	keyer := opts.Keyer
	if keyer == nil {
		keyer = cache.NewScopedKeyer(nil, cache.CredentialScope(opts.Token))
	}
	size := opts.PageSize
	if size <= 0 || size > MaxPageSize {
		size = MaxPageSize
	}

	inner := integrations.NewClient(opts.Cache, "github:", opts.CacheTTL, headers)
	if opts.Retry.Attempts > 0 {
		inner.SetRetryPolicy(opts.Retry)
	}
	inner.SetRequestTimeout(opts.RequestTimeout)

	return &Client{
		Client:     inner,
		baseURL:    base,
		graphqlURL: gql,
		keyer:      keyer,
		refresh:    opts.Refresh,
		pageSize:   size,
	}
}
