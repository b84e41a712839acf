package report

import (
	"io"
	"strings"

	"github.com/matzehuels/orgdeps/pkg/errors"
)

// Format selects how a report is written.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatTable}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatCSV, FormatJSON, FormatTable:
		return f, nil
	case "":
		return FormatCSV, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want csv, json or table)", s)
}

// Write renders r to w in format f. top limits the table format only;
// files always hold every entry.
func Write(w io.Writer, r *Report, f Format, top int) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatTable:
		_, err := io.WriteString(w, RenderTable(r.Top(top))+"\n")
		return err
	default:
		return WriteCSV(w, r.Entries)
	}
}
