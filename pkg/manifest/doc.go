// Package manifest reads npm package.json manifests.
//
// A manifest fetch yields a [Result], which is either present (with the
// raw file bytes) or absent. [Extract] turns raw bytes into the [Set] of
// dependency names declared under "dependencies" and "devDependencies":
//
//	set, err := manifest.Extract([]byte(`{"dependencies":{"react":"^18"}}`))
//	// set.Names() == []string{"react"}
//
// Extraction only fails for non-empty input that is not well-formed JSON.
// Every other shape (a top-level array, a "dependencies" string, a
// missing section) yields whatever names can be found, possibly none.
package manifest
