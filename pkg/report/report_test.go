package report

import (
	"bytes"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/orgdeps/pkg/errors"
	"github.com/matzehuels/orgdeps/pkg/manifest"
	"github.com/matzehuels/orgdeps/pkg/usage"
)

// tableWith builds a table whose first-seen order is the order of counts.
func tableWith(counts []Entry) *usage.Table {
	t := usage.NewTable()
	rounds := 0
	for _, c := range counts {
		rounds = max(rounds, c.Count)
	}
	for round := range rounds {
		set := manifest.NewSet()
		for _, c := range counts {
			if round < c.Count {
				set.Add(c.Name)
			}
		}
		t.Record(set, nil)
	}
	return t
}

func TestRankDeterministic(t *testing.T) {
	table := tableWith([]Entry{{"a", 3}, {"b", 5}, {"c", 5}, {"d", 1}})

	got := Rank(table)
	want := []Entry{{"b", 5}, {"c", 5}, {"a", 3}, {"d", 1}}
	if !slices.Equal(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}

	for range 10 {
		if again := Rank(table); !slices.Equal(again, got) {
			t.Fatalf("Rank() not stable: %v vs %v", again, got)
		}
	}
}

func TestRankEmpty(t *testing.T) {
	got := Rank(usage.NewTable())
	if got == nil || len(got) != 0 {
		t.Errorf("Rank(empty) = %#v, want empty non-nil slice", got)
	}
}

func TestRankKeepsEveryEntry(t *testing.T) {
	table := usage.NewTable()
	table.Record(manifest.NewSet("x", "y"), nil)
	table.Record(manifest.NewSet("y", "z"), nil)

	got := Rank(table)
	if len(got) != table.Len() {
		t.Fatalf("Rank() has %d entries, table has %d", len(got), table.Len())
	}
	seen := map[string]bool{}
	for _, e := range got {
		if seen[e.Name] {
			t.Errorf("duplicate entry %s", e.Name)
		}
		seen[e.Name] = true
		if e.Count <= 0 {
			t.Errorf("entry %s has count %d", e.Name, e.Count)
		}
	}
}

func TestTop(t *testing.T) {
	r := &Report{Entries: []Entry{{"a", 3}, {"b", 2}, {"c", 1}}}
	if got := r.Top(2); len(got) != 2 || got[1].Name != "b" {
		t.Errorf("Top(2) = %v", got)
	}
	if got := r.Top(0); len(got) != 3 {
		t.Errorf("Top(0) = %v", got)
	}
	if got := r.Top(10); len(got) != 3 {
		t.Errorf("Top(10) = %v", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []Entry{{"react", 12}, {"@types/node", 7}, {"left-pad", 1}})
	if err != nil {
		t.Fatal(err)
	}
	want := "Dependency,Usage\nreact,12\n@types/node,7\nleft-pad,1\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Dependency,Usage\n" {
		t.Errorf("WriteCSV(nil) = %q", buf.String())
	}
}

func TestCSVRoundTrip(t *testing.T) {
	entries := []Entry{{"react", 12}, {"odd,name", 3}, {`quo"te`, 2}, {"lodash", 1}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, entries); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if !slices.Equal(got, entries) {
		t.Errorf("round trip = %v, want %v", got, entries)
	}
}

func TestReadCSVErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":        "",
		"wrong header": "Name,Count\nreact,1\n",
		"bad count":    "Dependency,Usage\nreact,many\n",
		"negative":     "Dependency,Usage\nreact,-1\n",
		"extra field":  "Dependency,Usage\nreact,1,2\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(input)); err == nil {
				t.Error("ReadCSV() should fail")
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := &Report{
		Organization: "acme",
		GeneratedAt:  time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		RunID:        "0b6f0a5e-8f6b-4a8e-9a2b-3f1f7d6c9e10",
		Repositories: 4,
		Entries:      []Entry{{"react", 3}, {"vue", 1}},
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, in); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"organization": "acme"`) {
		t.Errorf("WriteJSON() should indent output:\n%s", buf.String())
	}
	out, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if out.Organization != in.Organization || out.RunID != in.RunID || !out.GeneratedAt.Equal(in.GeneratedAt) {
		t.Errorf("ReadJSON() = %+v", out)
	}
	if !slices.Equal(out.Entries, in.Entries) {
		t.Errorf("entries = %v", out.Entries)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"JSON", FormatJSON, false},
		{" table ", FormatTable, false},
		{"", FormatCSV, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) code = %s", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteTable(t *testing.T) {
	r := &Report{Entries: []Entry{{"react", 3}, {"vue", 2}, {"svelte", 1}}}
	var buf bytes.Buffer
	if err := Write(&buf, r, FormatTable, 2); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Dependency", "Usage", "react", "vue"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "svelte") {
		t.Error("table should be limited to the top 2 entries")
	}
}
