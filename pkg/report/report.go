package report

import (
	"slices"
	"time"

	"github.com/matzehuels/orgdeps/pkg/usage"
)

// Entry is one ranked row.
type Entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Report is the result of one organization scan.
type Report struct {
	Organization string    `json:"organization"`
	GeneratedAt  time.Time `json:"generated_at"`
	RunID        string    `json:"run_id"`
	Repositories int       `json:"repositories"`
	Entries      []Entry   `json:"entries"`
}

// Rank returns the table's entries sorted by count descending. Ties keep
// first-seen order. The result is never nil.
func Rank(t *usage.Table) []Entry {
	entries := []Entry{}
	for name, count := range t.All() {
		entries = append(entries, Entry{Name: name, Count: count})
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Count - a.Count
	})
	return entries
}

// Top returns the first n entries, or all of them when n <= 0.
func (r *Report) Top(n int) []Entry {
	if n <= 0 || n >= len(r.Entries) {
		return r.Entries
	}
	return r.Entries[:n]
}
