package timesheet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tabetl/internal/record"
	"tabetl/internal/transform"
)

// exportHeader mirrors the raw timesheet export layout.
var exportHeader = []string{
	"ID", "Contact", "Project Name", "Tasks", "Date",
	"Duration (hours)", "Duration (mins)", "Hourly Rate",
	"Billable Amount", "Billable Currency", "Invoice", "Description",
}

func exportRow(line int, contact, date, hours string) record.Row {
	return record.Row{
		Line: line,
		V: []string{
			"17", contact, "Substation upgrade", "Design review", date,
			hours, "90", "180.00", "270.00", "AUD", "INV-042", "checked relay settings",
		},
	}
}

func TestWeekday(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2023-03-06", "Monday", false},
		{"2023-03-12", "Sunday", false},
		{"06/03/2023", "Monday", false},
		{"06.03.2023", "Monday", false},
		{"yesterday", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := Weekday(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Weekday(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Weekday(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Weekday(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanPlan(t *testing.T) {
	t.Parallel()

	plan, err := CleanPlan(exportHeader, transform.PlanSpec{})
	require.NoError(t, err)

	out, err := plan.Apply([]record.Row{exportRow(2, "ACME", "2023-03-06", "1.5")}, nil)
	require.NoError(t, err)

	require.Equal(t, OutputHeader, out[0])
	require.Equal(t, []string{
		"ACME", "Substation upgrade", "Design review",
		"2023-03-06", "Monday", "1.5", "checked relay settings",
	}, out[1])
}

func TestCleanPlan_MissingColumnFails(t *testing.T) {
	t.Parallel()

	_, err := CleanPlan([]string{"Contact", "Date"}, transform.PlanSpec{})
	require.Error(t, err)
}

func TestStripFinancialPlan(t *testing.T) {
	t.Parallel()

	plan, err := StripFinancialPlan(exportHeader, transform.PlanSpec{})
	require.NoError(t, err)

	out, err := plan.Apply([]record.Row{exportRow(2, "ACME", "2023-03-06", "1.5")}, nil)
	require.NoError(t, err)

	header := out[0]
	require.Len(t, header, len(exportHeader)-len(FinancialColumns))
	for _, banned := range FinancialColumns {
		require.NotContains(t, header, banned)
	}
	// Non-financial columns survive in input order.
	require.Equal(t, "ID", header[0])
	require.Contains(t, header, "Duration (mins)")
	require.Contains(t, header, "Invoice")
}

func TestSortByDate(t *testing.T) {
	t.Parallel()

	plan, err := CleanPlan(exportHeader, transform.PlanSpec{})
	require.NoError(t, err)

	rows := []record.Row{
		exportRow(2, "ACME", "2023-03-08", "2"),
		exportRow(3, "ACME", "2023-03-06", "1"),
		exportRow(4, "Beta", "2023-03-06", "3"),
		exportRow(5, "ACME", "2023-03-07", "4"),
	}
	out, err := plan.Apply(rows, nil)
	require.NoError(t, err)

	SortByDate(out)

	var dates []string
	var hours []string
	for _, rec := range out[1:] {
		dates = append(dates, rec[3])
		hours = append(hours, rec[5])
	}
	require.Equal(t, []string{"2023-03-06", "2023-03-06", "2023-03-07", "2023-03-08"}, dates)
	// Stable: the two 03-06 rows keep their input order.
	require.Equal(t, []string{"1", "3", "4", "2"}, hours)
}

func TestSortByDate_HeaderOnly(t *testing.T) {
	t.Parallel()

	recs := [][]string{OutputHeader}
	SortByDate(recs) // must not panic
	require.Len(t, recs, 1)
}
