package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Table is a parsed resource: a header row and text records.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// Parse reads comma-separated data with a header row. Rows may have fewer or
// more cells than the header; missing cells read as "".
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return newTable(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrParse, err)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		rows = append(rows, rec)
	}
	return newTable(header, rows), nil
}

func newTable(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: rows, index: make(map[string]int, len(header))}
	for i, name := range header {
		// first column wins on duplicate names
		if _, ok := t.index[name]; !ok {
			t.index[name] = i
		}
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether the header names the column.
func (t *Table) Has(column string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[column]
	return ok
}

// Field returns the cell at row for column, or "" when either is missing.
func (t *Table) Field(row int, column string) string {
	if t == nil || row < 0 || row >= len(t.Rows) {
		return ""
	}
	col, ok := t.index[column]
	if !ok || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
