// Package sheets reads and appends rectangular string tables held in a
// spreadsheet-like row store.
package sheets

import (
	"context"
	"errors"
	"strings"
)

// ErrRangeNotFound is returned by stores that cannot resolve a range.
var ErrRangeNotFound = errors.New("range not found")

// Store is the row store used by the rest of the application.
type Store interface {
	// FetchTable returns the rows addressed by rng, header row first.
	FetchTable(ctx context.Context, rng string) (Table, error)
	// AppendRow inserts one row at the end of the table addressed by rng.
	AppendRow(ctx context.Context, rng string, row []string) error
}

// Table is a ragged grid of cells. Row 0 is the header.
type Table [][]string

// Normalize trims surrounding whitespace from a cell value.
func Normalize(s string) string {
	return strings.TrimSpace(s)
}

// Header returns the header row, or nil for an empty table.
func (t Table) Header() []string {
	if len(t) == 0 {
		return nil
	}

	return t[0]
}

// Rows returns the data rows below the header.
func (t Table) Rows() [][]string {
	if len(t) < 2 {
		return nil
	}

	return t[1:]
}

// FindColumnIndex returns the index of the first header cell equal to label
// after trimming both, or -1.
func (t Table) FindColumnIndex(label string) int {
	want := Normalize(label)
	for i, h := range t.Header() {
		if Normalize(h) == want {
			return i
		}
	}

	return -1
}

// FindRowByKey returns the first data row whose normalized cell at col equals
// the normalized key.
func (t Table) FindRowByKey(col int, key string) ([]string, bool) {
	if col < 0 {
		return nil, false
	}

	want := Normalize(key)
	for _, row := range t.Rows() {
		if Cell(row, col) == want {
			return row, true
		}
	}

	return nil, false
}

// Cell returns the normalized value at col, or "" when the row is too short
// or col is negative.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}

	return Normalize(row[col])
}

// SheetName returns the tab portion of an A1 range such as "Log!A:O".
func SheetName(rng string) string {
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		return strings.Trim(rng[:i], "'")
	}

	return rng
}
