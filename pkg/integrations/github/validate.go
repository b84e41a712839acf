package github

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/matzehuels/orgdeps/pkg/errors"
)

// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
var validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return errors.New(errors.ErrCodeInvalidInput, "organization is required")
	}
	if !validOwner.MatchString(owner) {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid organization %q: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen", owner)
	}
	return nil
}

// ParseOrgRef accepts an organization name or a URL pointing at it, such
// as "https://github.com/acme" or "github.com/acme/", and returns the
// validated organization name: the last non-empty path segment.
func ParseOrgRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ValidateOwner("")
	}

	path := ref
	if strings.Contains(ref, "://") {
		if err := errors.ValidateURL(ref); err != nil {
			return "", err
		}
		u, err := url.Parse(ref)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid organization URL")
		}
		path = u.Path
	}

	segments := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(segments) == 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "no organization in %q", ref)
	}
	org := segments[len(segments)-1]
	if err := ValidateOwner(org); err != nil {
		return "", err
	}
	return org, nil
}
