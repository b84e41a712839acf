package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// CSVHeader is the first row of every CSV report.
var CSVHeader = []string{"Dependency", "Usage"}

// WriteCSV writes entries as CSV with a [CSVHeader] row. Names that contain
// a comma, quote or newline are quoted; every npm package name is written
// verbatim.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Name, strconv.Itoa(e.Count)}); err != nil {
			return fmt.Errorf("write %s: %w", e.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a report written by [WriteCSV].
func ReadCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("decode: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if header[0] != CSVHeader[0] || header[1] != CSVHeader[1] {
		return nil, fmt.Errorf("decode: unexpected header %q", header)
	}

	entries := []Entry{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		count, err := strconv.Atoi(rec[1])
		if err != nil || count < 0 {
			return nil, fmt.Errorf("decode: %s: invalid usage %q", rec[0], rec[1])
		}
		entries = append(entries, Entry{Name: rec[0], Count: count})
	}
}

// ExportCSV writes entries to a CSV file at path, replacing it.
func ExportCSV(entries []Entry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
