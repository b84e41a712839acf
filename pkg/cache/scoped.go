package cache

// ScopedKeyer wraps a Keyer with a prefix for credential isolation.
// Manifests of private repositories are only visible to tokens that can
// read them, so the CLI scopes keys by a digest of the token in use.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "cred:"+Hash([]byte(token))[:16]+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ManifestKey generates a prefixed manifest key.
func (k *ScopedKeyer) ManifestKey(org, repo, path string) string {
	return k.prefix + k.inner.ManifestKey(org, repo, path)
}

// CredentialScope returns the key prefix used for a bearer token. The
// token itself is never part of a key; only a truncated digest is.
func CredentialScope(token string) string {
	if token == "" {
		return "anon:"
	}
	return "cred:" + Hash([]byte(token))[:16] + ":"
}
