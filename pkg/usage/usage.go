// Package usage counts how many repositories declare each dependency.
package usage

import (
	"iter"
	"strings"
	"sync"

	"github.com/matzehuels/orgdeps/pkg/manifest"
)

// Ignore is a substring filter: a name is ignored when it contains any
// non-empty pattern. Empty patterns match nothing, so a nil or empty
// Ignore keeps every name.
type Ignore []string

// Matches reports whether name should be left out of the count.
func (ig Ignore) Matches(name string) bool {
	for _, p := range ig {
		if p != "" && strings.Contains(name, p) {
			return true
		}
	}
	return false
}

// Table maps dependency names to the number of repositories declaring
// them. Names keep the order in which they were first recorded. Counts
// only grow. A Table is safe for concurrent use.
type Table struct {
	mu     sync.Mutex
	order  []string
	counts map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{counts: make(map[string]int)}
}

// Record adds one to the count of every name in set that ig does not
// match, and returns how many names were counted. Call it once per
// repository.
func (t *Table) Record(set *manifest.Set, ig Ignore) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	n := 0
	for name := range set.All() {
		if ig.Matches(name) {
			continue
		}
		if _, ok := t.counts[name]; !ok {
			t.order = append(t.order, name)
		}
		t.counts[name]++
		n++
	}
	return n
}

// Count returns the count for name, 0 if it was never recorded.
func (t *Table) Count(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[name]
}

// Len returns the number of distinct names.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *Table) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	sum := 0
	for _, c := range t.counts {
		sum += c
	}
	return sum
}

// All iterates over (name, count) pairs in first-seen order. It iterates
// over a snapshot taken when iteration starts.
func (t *Table) All() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		t.mu.Lock()
		names := make([]string, len(t.order))
		counts := make([]int, len(t.order))
		for i, n := range t.order {
			names[i] = n
			counts[i] = t.counts[n]
		}
		t.mu.Unlock()

		for i, n := range names {
			if !yield(n, counts[i]) {
				return
			}
		}
	}
}
