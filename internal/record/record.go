// Package record defines the row and column-major table representations used
// between parser, transform and sinks. Everything is text; the only typed
// interpretation happens inside derived transform rules.
package record

import (
	"fmt"
	"strings"
)

// Row is a positional record. Line is the 1-based record number in the
// source, when known (0 for synthesized rows).
type Row struct {
	V    []string
	Line int
}

// Field returns the value at index i, or an error when i is out of range for
// this row. The error carries the line number so it can surface directly.
func (r Row) Field(i int) (string, error) {
	if i < 0 || i >= len(r.V) {
		return "", fmt.Errorf("%w: line %d: field index %d out of range (row has %d fields)",
			ErrMalformedInput, r.Line, i, len(r.V))
	}
	return r.V[i], nil
}

// ErrMalformedInput marks structural input defects: parallel sequences of
// unequal length, or a required field index missing from a row.
var ErrMalformedInput = fmt.Errorf("malformed input")

// Columns is a column-major table: named parallel sequences sharing one
// implicit row index. The cable-schedule exports arrive in this shape.
type Columns struct {
	names []string
	cols  [][]string
	rows  int
}

// NewColumns builds a Columns table and validates that every sequence has
// the same length. A mismatch fails immediately rather than truncating or
// padding to the shortest column.
func NewColumns(names []string, cols [][]string) (*Columns, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("%w: %d column names for %d columns", ErrMalformedInput, len(names), len(cols))
	}
	if len(cols) == 0 {
		return &Columns{names: names}, nil
	}
	n := len(cols[0])
	for i, c := range cols {
		if len(c) != n {
			return nil, fmt.Errorf("%w: column %q has %d rows, column %q has %d",
				ErrMalformedInput, names[i], len(c), names[0], n)
		}
	}
	return &Columns{names: names, cols: cols, rows: n}, nil
}

func (c *Columns) Names() []string { return c.names }
func (c *Columns) Len() int        { return c.rows }

// Rows zips the columns into ordered positional rows. Row i of the output
// holds element i of every column, so the shared row index is preserved.
func (c *Columns) Rows() []Row {
	out := make([]Row, c.rows)
	for i := 0; i < c.rows; i++ {
		v := make([]string, len(c.cols))
		for j := range c.cols {
			v[j] = c.cols[j][i]
		}
		out[i] = Row{V: v, Line: i + 1}
	}
	return out
}

// HasEdgeSpace reports whether s starts or ends with ASCII whitespace.
// Lets hot paths skip strings.TrimSpace when nothing would change.
func HasEdgeSpace(s string) bool {
	if s == "" {
		return false
	}
	return isSpace(s[0]) || isSpace(s[len(s)-1])
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

// StripBOM removes a UTF-8 byte-order-mark artifact from the front of a
// value. Legacy exports re-encoded through Windows tools leave U+FEFF glued
// to the first field, which then breaks header matching and lookups.
func StripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
