package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/orgdeps/pkg/integrations"
	"github.com/matzehuels/orgdeps/pkg/manifest"
	"github.com/matzehuels/orgdeps/pkg/observability"
)

var (
	errNotAFile    = errors.New("path is not a file")
	errUnsupported = errors.New("content not inlined (file too large)")
)

// FetchManifest retrieves path from owner/repo and returns its decoded
// bytes. Every failure yields [manifest.Absent]; the reason is reported to
// the scan hooks only.
func (c *Client) FetchManifest(ctx context.Context, owner, repo, path string) manifest.Result {
	start := time.Now()
	key := c.keyer.ManifestKey(owner, repo, path)

	var res manifest.Result
	err := c.Cached(ctx, key, c.refresh, &res, func() error {
		content, err := c.fetchFile(ctx, owner, repo, path)
		if errors.Is(err, integrations.ErrNotFound) {
			res = manifest.Absent()
			return nil
		}
		if err != nil {
			return err
		}
		res = manifest.Present(content)
		return nil
	})

	outcome := observability.FetchPresent
	switch {
	case err != nil:
		outcome = observability.FetchFailed
		res = manifest.Absent()
	case !res.Present:
		outcome = observability.FetchMissing
	}
	observability.Scan().OnFetch(ctx, owner, repo, outcome, time.Since(start), err)
	return res
}

func (c *Client) fetchFile(ctx context.Context, owner, repo, path string) ([]byte, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL,
		integrations.URLEncode(owner), integrations.URLEncode(repo), escapePath(path))

	var data contentResponse
	if err := c.Get(ctx, url, &data); err != nil {
		return nil, err
	}
	if data.Type != "" && data.Type != "file" {
		return nil, fmt.Errorf("%w: %s is a %s", errNotAFile, path, data.Type)
	}
	if data.Encoding != "" && data.Encoding != "base64" {
		return nil, fmt.Errorf("%w: encoding %q", errUnsupported, data.Encoding)
	}

	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(data.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return content, nil
}

// escapePath escapes each segment of a repository-relative path.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = integrations.URLEncode(s)
	}
	return strings.Join(parts, "/")
}
