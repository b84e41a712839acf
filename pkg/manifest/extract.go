package manifest

import (
	"bytes"
	"encoding/json"
	"io"
	"slices"

	"github.com/matzehuels/orgdeps/pkg/errors"
)

// Sections are the top-level keys whose object keys are dependency names,
// in the order their names are added to the set.
var Sections = []string{"dependencies", "devDependencies"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Extract parses a package.json and returns the names declared in
// [Sections]. A name declared in both sections appears once.
//
// Empty or whitespace-only input yields an empty set. Input that is not
// well-formed JSON fails with an error coded
// [errors.ErrCodeInvalidManifest]. Well-formed input whose top level is
// not an object, or whose sections are not objects, contributes nothing.
func Extract(raw []byte) (*Set, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return NewSet(), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "manifest is not valid JSON")
	}

	sections, err := readSections(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read manifest")
	}

	set := NewSet()
	for _, name := range Sections {
		for _, dep := range sections[name] {
			set.Add(dep)
		}
	}
	return set, nil
}

// ExtractResult extracts r's content, or returns an empty set without
// parsing when r is absent.
func ExtractResult(r Result) (*Set, error) {
	if !r.Present {
		return NewSet(), nil
	}
	return Extract(r.Content)
}

// readSections streams the top-level object and returns, for each wanted
// section that holds an object, its keys in document order. A repeated
// section key replaces the earlier one, matching how JSON objects are
// usually decoded.
func readSections(raw []byte) (map[string][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil
	}

	sections := make(map[string][]string, len(Sections))
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		if !slices.Contains(Sections, key) {
			if err := skipValue(dec); err != nil {
				return nil, err
			}
			continue
		}
		keys, err := objectKeys(dec)
		if err != nil {
			return nil, err
		}
		if keys == nil {
			delete(sections, key)
			continue
		}
		sections[key] = keys
	}
	return sections, nil
}

// objectKeys reads the next value. If it is an object its keys are
// returned (non-nil, possibly empty); any other value is skipped and nil
// is returned.
func objectKeys(dec *json.Decoder) ([]string, error) {
	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	inner := json.NewDecoder(bytes.NewReader(value))
	tok, err := inner.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil
	}

	keys := []string{}
	for inner.More() {
		tok, err := inner.Token()
		if err != nil {
			return nil, err
		}
		if k, ok := tok.(string); ok {
			keys = append(keys, k)
		}
		if err := skipValue(inner); err != nil {
			return nil, err
		}
	}
	if _, err := inner.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	var skip json.RawMessage
	return dec.Decode(&skip)
}
