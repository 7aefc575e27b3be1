package domain

import "strings"

// Frame is a tabular input: a header row and string cells.
type Frame struct {
	// Kind is the data kind key (e.g. "lithology", "samples").
	Kind string

	// Source is where the frame was read from, for messages.
	Source string

	// Columns holds the header names in file order.
	Columns []string

	// Rows holds the cells, one slice per row.
	Rows [][]string
}

// ColumnIndex returns the index of the column named name
// (case-insensitive), or -1.
func (f Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell at row, col or "" when out of range.
func (f Frame) Cell(row, col int) string {
	if row < 0 || row >= len(f.Rows) || col < 0 || col >= len(f.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(f.Rows[row][col])
}

// Len returns the number of rows.
func (f Frame) Len() int {
	return len(f.Rows)
}
