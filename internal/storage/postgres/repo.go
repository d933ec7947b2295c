// Package postgres backs the ad-hoc schedule table with Postgres. The table
// is still scratch data: it is dropped and recreated every run, so pointing
// two concurrent runs at the same table name is not supported.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"tabetl/internal/storage"
)

type Repo struct {
	pool *pgxpool.Pool
}

func init() {
	storage.Register("postgres", New)
}

func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Repo{pool: pool}, nil
}

func (r *Repo) Close() { r.pool.Close() }

func (r *Repo) EnsureScheduleTable(ctx context.Context, table string, columns []string) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("table name is empty")
	}
	if len(columns) == 0 {
		return fmt.Errorf("create table %s: no columns", table)
	}

	if _, err := r.pool.Exec(ctx, "DROP TABLE IF EXISTS "+sqlIdent(table)); err != nil {
		return fmt.Errorf("drop table %s: %w", table, err)
	}

	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, sqlIdent(c)+" TEXT")
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", sqlIdent(table), strings.Join(parts, ",\n  "))
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
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

	// The extended protocol caps bind parameters per statement at 65535;
	// chunk accordingly.
	maxRows := 65000 / len(columns)
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
				fmt.Fprintf(&b, "$%d", n)
				n++
				args = append(args, v)
			}
			b.WriteString(")")
		}

		if _, err := r.pool.Exec(ctx, b.String(), args...); err != nil {
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

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var a, b *string
		if err := rows.Scan(&a, &b); err != nil {
			return nil, err
		}
		var pair [2]string
		if a != nil {
			pair[0] = *a
		}
		if b != nil {
			pair[1] = *b
		}
		out = append(out, pair)
	}
	return out, rows.Err()
}

func sqlIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
