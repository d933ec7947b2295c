package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"tabetl/internal/storage"
)

func newMemRepo(t *testing.T) storage.Repository {
	t.Helper()
	repo, err := New(context.Background(), storage.Config{Kind: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(repo.Close)
	return repo
}

func TestScheduleTable_LoadAndReport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemRepo(t)

	// Header exactly as it comes off the export, spaces and all.
	columns := []string{
		"Cable Code", "Cable Configuration", "Cable Reference",
		"Cable Length", "From", "To",
	}
	require.NoError(t, repo.EnsureScheduleTable(ctx, "cable_schedule", columns))

	rows := [][]string{
		{"4", "3", "C02", "120", "MSB", "DB1"},
		{"2", "5", "C01", "45", "MSB", "DB2"},
		{"9", "9", "", "0", "", ""}, // no reference: excluded from the report
	}
	require.NoError(t, repo.InsertRows(ctx, "cable_schedule", columns, rows))

	pairs, err := storage.FaultLoopReport(ctx, repo, "cable_schedule")
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	// Ordered by Cable Reference: C01 before C02.
	require.Equal(t, int64(10), pairs[0].Product)
	require.Equal(t, int64(12), pairs[1].Product)
}

func TestEnsureScheduleTable_RebuildDropsOldRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemRepo(t)

	columns := []string{"Cable Code", "Cable Configuration", "Cable Reference"}
	require.NoError(t, repo.EnsureScheduleTable(ctx, "cable_schedule", columns))
	require.NoError(t, repo.InsertRows(ctx, "cable_schedule", columns,
		[][]string{{"1", "1", "C01"}}))

	// Second Ensure must give a fresh, empty table.
	require.NoError(t, repo.EnsureScheduleTable(ctx, "cable_schedule", columns))
	pairs, err := storage.FaultLoopReport(ctx, repo, "cable_schedule")
	require.NoError(t, err)
	require.Empty(t, pairs)
}

func TestInsertRows_LargeSchedule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemRepo(t)

	// 9 columns x 5000 rows is 45000 bound values, several statements' worth
	// under SQLite's 32766 host-parameter cap. The whole load must land.
	columns := []string{
		"Cable Code", "Cable Configuration", "Cable Reference",
		"Cable Length", "From", "To", "Cable Type", "Insulation", "Method",
	}
	require.NoError(t, repo.EnsureScheduleTable(ctx, "cable_schedule", columns))

	const n = 5000
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, []string{
			"2", "3", fmt.Sprintf("C%05d", i),
			"120", "MSB", "DB1", "4C+E", "XLPE", "L",
		})
	}
	require.NoError(t, repo.InsertRows(ctx, "cable_schedule", columns, rows))

	pairs, err := storage.FaultLoopReport(ctx, repo, "cable_schedule")
	require.NoError(t, err)
	require.Len(t, pairs, n)
	require.Equal(t, int64(6), pairs[0].Product)
	require.Equal(t, int64(6), pairs[n-1].Product)
}

func TestInsertRows_ArityMismatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newMemRepo(t)

	columns := []string{"Cable Code", "Cable Configuration", "Cable Reference"}
	require.NoError(t, repo.EnsureScheduleTable(ctx, "cable_schedule", columns))

	err := repo.InsertRows(ctx, "cable_schedule", columns, [][]string{{"1", "2"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "row 1")
}

func TestEnsureScheduleTable_NoColumns(t *testing.T) {
	t.Parallel()

	repo := newMemRepo(t)
	err := repo.EnsureScheduleTable(context.Background(), "cable_schedule", nil)
	require.Error(t, err)
}
