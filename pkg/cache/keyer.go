package cache

import "strings"

// Keyer derives cache keys for manifest lookups.
type Keyer interface {
	ManifestKey(org, repo, path string) string
}

// DefaultKeyer produces keys of the form "manifest:<org>/<repo>:<path>".
// GitHub owner and repository names are case-insensitive, so both are
// lowercased; the path is kept verbatim.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ManifestKey returns the key for a repository's manifest.
func (DefaultKeyer) ManifestKey(org, repo, path string) string {
	return "manifest:" + strings.ToLower(org) + "/" + strings.ToLower(repo) + ":" + path
}
