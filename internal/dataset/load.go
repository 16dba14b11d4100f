package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingColumn indicates the source header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// RawTable holds the source CSV exactly as read: string cells, no coercion.
// Parsing into native types is the cleaning pipeline's job.
type RawTable struct {
	Path    string
	Headers []string
	Rows    [][]string

	idx map[string]int
}

// Load reads the source CSV into a RawTable and validates that every
// required column is present. Cell values are left untouched.
func Load(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source csv: %w", err)
	}
	defer f.Close()
	return read(path, f)
}

func read(path string, r io.Reader) (*RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("source csv %s: empty file", path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &RawTable{Path: path, Headers: header, idx: make(map[string]int, len(header))}
	for i, h := range header {
		t.idx[strings.TrimSpace(h)] = i
	}
	for _, col := range RequiredColumns {
		if _, ok := t.idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+2, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Field returns the named column of a row, or "" when the row is short.
func (t *RawTable) Field(row []string, col string) string {
	i, ok := t.idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
