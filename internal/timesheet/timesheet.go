// Package timesheet cleans timesheet exports: financial and bookkeeping
// columns are dropped, a weekday column is derived from the date, and the
// result is reordered and sorted for review.
package timesheet

import (
	"fmt"
	"sort"
	"time"

	"tabetl/internal/transform"
)

// FinancialColumns are never allowed into a cleaned export.
var FinancialColumns = []string{"Hourly Rate", "Billable Amount", "Billable Currency"}

// MetaColumns are bookkeeping columns the full clean also removes.
var MetaColumns = []string{"ID", "Invoice", "Duration (mins)"}

// OutputHeader is the cleaned layout, in review order.
var OutputHeader = []string{
	"Contact",
	"Project Name",
	"Tasks",
	"Date",
	"Day of Week",
	"Duration (hours)",
	"Description",
}

const dateColumn = "Date"

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02.01.2006",
}

// Weekday derives the English weekday name from a date field value.
func Weekday(v string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Weekday().String(), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", v)
}

// CleanPlan builds the full cleaning plan against the export's header:
// every OutputHeader column is copied from its namesake, except Day of Week,
// which is derived from Date. A header missing a needed column fails at
// compile time.
func CleanPlan(inputHeader []string, spec transform.PlanSpec) (*transform.Plan, error) {
	rules := make([]transform.Rule, 0, len(OutputHeader))
	for _, name := range OutputHeader {
		if name == "Day of Week" {
			rules = append(rules, transform.Derived(name, dateColumn, Weekday))
			continue
		}
		rules = append(rules, transform.Copy(name, name))
	}
	return transform.Compile(inputHeader, rules, spec)
}

// StripFinancialPlan builds the light variant: the input layout is kept
// as-is minus the financial columns.
func StripFinancialPlan(inputHeader []string, spec transform.PlanSpec) (*transform.Plan, error) {
	drop := map[string]bool{}
	for _, name := range FinancialColumns {
		drop[name] = true
	}

	var rules []transform.Rule
	for _, name := range inputHeader {
		if drop[name] {
			continue
		}
		rules = append(rules, transform.Copy(name, name))
	}
	return transform.Compile(inputHeader, rules, spec)
}

// SortByDate stably sorts the data rows of a cleaned result (header first)
// ascending by the Date column. Dates are ISO (yyyy-mm-dd), so byte order
// is date order.
func SortByDate(records [][]string) {
	if len(records) < 3 {
		return
	}
	ix := -1
	for i, name := range records[0] {
		if name == dateColumn {
			ix = i
			break
		}
	}
	if ix < 0 {
		return
	}
	data := records[1:]
	sort.SliceStable(data, func(a, b int) bool {
		return data[a][ix] < data[b][ix]
	})
}
