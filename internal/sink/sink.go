// Package sink persists ordered output records. Every sink receives the
// full record sequence (header first) and either writes all of it or leaves
// no completed output behind.
package sink

import "errors"

// ErrWrite marks a destination failure: the file or workbook could not be
// created, written, or moved into place.
var ErrWrite = errors.New("sink write")

// Sink consumes an ordered record sequence.
type Sink interface {
	Write(records [][]string) error
}

// Memory keeps the records in order for the caller. Used in tests.
type Memory struct {
	Records [][]string
}

func (m *Memory) Write(records [][]string) error {
	m.Records = append(m.Records, records...)
	return nil
}
