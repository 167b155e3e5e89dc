package spreadsheet

import "strings"

// Frame is a tabular view over a parsed export: a header row plus data rows,
// addressed by column name. Cell access never fails; a missing column or a
// short row reads as the empty string, mirroring how the exports themselves
// treat absent values.
type Frame struct {
	Columns []string
	index   map[string]int
	rows    [][]string
}

// NewFrame builds a frame from an already-located header row and its data
// rows. The report path uses this for files whose header position is fixed
// by contract rather than discovered.
func NewFrame(header []string, rows [][]string) *Frame {
	return newFrame(header, rows)
}

func newFrame(header []string, rows [][]string) *Frame {
	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		columns[i] = name
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return &Frame{Columns: columns, index: index, rows: rows}
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// HasColumn reports whether the header contains the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Value returns the cell at (row, column), or "" when either is absent.
func (f *Frame) Value(row int, column string) string {
	if row < 0 || row >= len(f.rows) {
		return ""
	}
	idx, ok := f.index[column]
	if !ok {
		return ""
	}
	cells := f.rows[row]
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
