package manifest

// Result is the outcome of a manifest fetch. Absent covers both
// "the file does not exist" and "the repository could not be read".
type Result struct {
	Present bool   `json:"present"`
	Content []byte `json:"content,omitempty"`
}

// Present returns a Result holding the decoded manifest bytes.
func Present(content []byte) Result {
	return Result{Present: true, Content: content}
}

// Absent returns a Result for a repository without a readable manifest.
func Absent() Result {
	return Result{}
}
