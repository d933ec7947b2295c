package transform

import "tabetl/internal/record"

// Predicate decides whether a row is kept. Returning an error aborts the
// whole run (used for structural defects like missing designated fields).
type Predicate func(record.Row) (bool, error)

// BlankRowFilter drops a row when every designated field (by position) is
// the empty string. With no designated fields there is nothing to judge
// blankness by, so every row is kept. A row that is missing one of the
// designated positions is a structural defect, not a blank row, and fails
// the run.
func BlankRowFilter(fields ...int) Predicate {
	return func(row record.Row) (bool, error) {
		for _, i := range fields {
			v, err := row.Field(i)
			if err != nil {
				return false, err
			}
			if v != "" {
				return true, nil
			}
		}
		return len(fields) == 0, nil
	}
}
