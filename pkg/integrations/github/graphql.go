package github

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/matzehuels/orgdeps/pkg/errors"
	"github.com/matzehuels/orgdeps/pkg/integrations"
	"github.com/matzehuels/orgdeps/pkg/observability"
)

const repositoriesQuery = `query($organization: String!, $cursor: String, $first: Int!) {
  organization(login: $organization) {
    repositories(first: $first, after: $cursor) {
      edges { cursor node { name } }
      pageInfo { hasNextPage endCursor }
    }
  }
}`

// repositoryPage is one decoded listing page.
type repositoryPage struct {
	names   []string
	hasNext bool
	next    string
}

// Repositories returns an iterator over the names of every repository
// owned by org, in the order GitHub lists them. Pages are fetched lazily as
// the caller ranges over the sequence; stopping early stops fetching.
//
// Each name is yielded once, even if GitHub repeats it across pages. On
// failure the iterator yields a single ("", err) pair and stops. A page
// that claims more results but does not move the cursor is reported as an
// error rather than requested again.
func (c *Client) Repositories(ctx context.Context, org string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		hooks := observability.Scan()
		start := time.Now()
		seen := make(map[string]struct{})
		var err error

		hooks.OnListStart(ctx, org)
		defer func() {
			hooks.OnListComplete(ctx, org, len(seen), time.Since(start), err)
		}()

		var cursor string
		for page := 1; ; page++ {
			var p *repositoryPage
			p, err = c.fetchPage(ctx, org, cursor)
			if err != nil {
				yield("", err)
				return
			}
			hooks.OnPage(ctx, org, page, len(p.names))

			for _, name := range p.names {
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				if !yield(name, nil) {
					return
				}
			}

			if !p.hasNext {
				return
			}
			if p.next == "" || p.next == cursor {
				err = errors.New(errors.ErrCodeNetwork,
					"list repositories of %s: page %d did not advance the cursor", org, page)
				yield("", err)
				return
			}
			cursor = p.next
		}
	}
}

// ListRepositories collects [Client.Repositories] into a slice.
func (c *Client) ListRepositories(ctx context.Context, org string) ([]string, error) {
	var names []string
	for name, err := range c.Repositories(ctx, org) {
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func (c *Client) fetchPage(ctx context.Context, org, cursor string) (*repositoryPage, error) {
	vars := map[string]any{
		"organization": org,
		"first":        c.pageSize,
	}
	if cursor != "" {
		vars["cursor"] = cursor
	}

	var resp repositoriesResponse
	req := graphQLRequest{Query: repositoriesQuery, Variables: vars}
	if err := c.Post(ctx, c.graphqlURL, req, &resp); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.Wrap(integrations.Code(err), err, "list repositories of %s", org)
	}
	if err := queryError(org, resp.Errors); err != nil {
		return nil, err
	}

	o := resp.Data.Organization
	if o == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "organization %s not found", org)
	}

	edges := o.Repositories.Edges
	p := &repositoryPage{
		names:   make([]string, 0, len(edges)),
		hasNext: o.Repositories.PageInfo.HasNextPage,
		next:    o.Repositories.PageInfo.EndCursor,
	}
	for _, e := range edges {
		if e.Node.Name != "" {
			p.names = append(p.names, e.Node.Name)
		}
	}
	if n := len(edges); n > 0 && edges[n-1].Cursor != "" {
		p.next = edges[n-1].Cursor
	}
	return p, nil
}

// queryError converts GraphQL-level errors, which arrive with status 200.
func queryError(org string, errs []graphQLError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	code := errors.ErrCodeNetwork
	for i, e := range errs {
		msgs[i] = e.Message
		switch e.Type {
		case "NOT_FOUND":
			code = errors.ErrCodeNotFound
		case "FORBIDDEN":
			code = errors.ErrCodeForbidden
		case "RATE_LIMITED":
			code = errors.ErrCodeRateLimited
		}
	}
	return errors.New(code, "list repositories of %s: %s", org, strings.Join(msgs, "; "))
}
