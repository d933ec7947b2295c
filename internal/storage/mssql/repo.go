// Package mssql backs the ad-hoc schedule table with SQL Server.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"tabetl/internal/storage"
)

type Repo struct {
	db *sql.DB
}

func init() {
	storage.Register("mssql", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() { _ = r.db.Close() }

func (r *Repo) EnsureScheduleTable(ctx context.Context, table string, columns []string) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("table name is empty")
	}
	if len(columns) == 0 {
		return fmt.Errorf("create table %s: no columns", table)
	}

	drop := fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NOT NULL DROP TABLE %s",
		strings.ReplaceAll(table, "'", "''"), sqlIdent(table))
	if _, err := r.db.ExecContext(ctx, drop); err != nil {
		return fmt.Errorf("drop table %s: %w", table, err)
	}

	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, sqlIdent(c)+" NVARCHAR(MAX)")
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", sqlIdent(table), strings.Join(parts, ",\n  "))
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

func (r *Repo) InsertRows(ctx context.Context, table string, columns []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	colList := make([]string, 0, len(columns))
	for _, c := range columns {
		colList = append(colList, sqlIdent(c))
	}

	// SQL Server caps parameters per statement at 2100; chunk accordingly.
	maxRows := 2000 / len(columns)
	if maxRows < 1 {
		maxRows = 1
	}

	for start := 0; start < len(rows); start += maxRows {
		end := start + maxRows
		if end > len(rows) {
			end = len(rows)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", sqlIdent(table), strings.Join(colList, ", "))

		args := make([]any, 0, (end-start)*len(columns))
		n := 1
		for i, row := range rows[start:end] {
			if len(row) != len(columns) {
				return fmt.Errorf("insert %s: row %d has %d fields, table has %d columns",
					table, start+i+1, len(row), len(columns))
			}
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(")
			for j, v := range row {
				if j > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "@p%d", n)
				args = append(args, sql.Named(fmt.Sprintf("p%d", n), v))
				n++
			}
			b.WriteString(")")
		}

		if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func (r *Repo) SelectReportRows(ctx context.Context, table string) ([][2]string, error) {
	q := fmt.Sprintf(
		`SELECT %s, %s FROM %s WHERE NOT(%s = '') ORDER BY %s ASC`,
		sqlIdent(storage.ColCableCode),
		sqlIdent(storage.ColCableConfiguration),
		sqlIdent(table),
		sqlIdent(storage.ColCableReference),
		sqlIdent(storage.ColCableReference),
	)

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var a, b sql.NullString
		if err := rows.Scan(&a, &b); err != nil {
			return nil, err
		}
		out = append(out, [2]string{a.String, b.String})
	}
	return out, rows.Err()
}

func sqlIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
