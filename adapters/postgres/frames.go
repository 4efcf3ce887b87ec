package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"tabular/domain/core"
	"tabular/domain/frame"
	"tabular/domain/series"
)

// IfExists decides what WriteSQL does when the target table already exists
type IfExists string

const (
	Fail    IfExists = "fail"
	Replace IfExists = "replace"
	Append  IfExists = "append"
)

// Postgres caps bind parameters per statement at 65535, so inserts are
// batched to stay well under it.
const maxBatchRows = 1000

// ReadSQL runs a query and builds a frame from the result set. SQL NULLs
// become missing cells and column kinds follow the driver's scan types.
func ReadSQL(ctx context.Context, db *sqlx.DB, query string, args ...any) (*frame.Frame, error) {
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(names) == 0 {
		return nil, core.ErrEmptyFrame
	}

	colVals := make([][]any, len(names))
	for rows.Next() {
		record, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range record {
			colVals[i] = append(colVals[i], normalizeScan(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed during row iteration: %w", err)
	}

	cols := make([]*series.Series, len(names))
	for i, name := range names {
		s, err := series.FromValues(name, colVals[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		cols[i] = s
	}
	return frame.New(cols...)
}

// normalizeScan maps driver scan values onto series cell types
func normalizeScan(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(t)
	case time.Time:
		return t
	case int64, float64, bool, string:
		return t
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// WriteSQL stores a frame as a table using batched inserts inside one
// transaction. Missing cells become NULL.
func WriteSQL(ctx context.Context, db *sqlx.DB, table string, f *frame.Frame, mode IfExists) error {
	if f.NCols() == 0 {
		return core.ErrEmptyFrame
	}
	if mode == "" {
		mode = Fail
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	switch mode {
	case Replace:
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+pq.QuoteIdentifier(table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, CreateTableDDL(table, f, false)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	case Append:
		if _, err := tx.ExecContext(ctx, CreateTableDDL(table, f, true)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	case Fail:
		if _, err := tx.ExecContext(ctx, CreateTableDDL(table, f, false)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	default:
		return fmt.Errorf("unknown if-exists mode: %s", mode)
	}

	names := f.Columns()
	cols := make([]*series.Series, len(names))
	for i, name := range names {
		c, err := f.Column(name)
		if err != nil {
			return err
		}
		cols[i] = c
	}

	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = pq.QuoteIdentifier(name)
	}
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ",
		pq.QuoteIdentifier(table), strings.Join(quoted, ", "))

	for start := 0; start < f.NRows(); start += maxBatchRows {
		end := start + maxBatchRows
		if end > f.NRows() {
			end = f.NRows()
		}

		var sb strings.Builder
		sb.WriteString(prefix)
		args := make([]any, 0, (end-start)*len(cols))
		for row := start; row < end; row++ {
			if row > start {
				sb.WriteString(", ")
			}
			sb.WriteString("(")
			for j, col := range cols {
				if j > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "$%d", len(args)+1)
				v, err := col.At(row)
				if err != nil {
					return err
				}
				args = append(args, v)
			}
			sb.WriteString(")")
		}

		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("failed to insert rows %d-%d: %w", start, end-1, err)
		}
	}

	return tx.Commit()
}

// CreateTableDDL builds the DDL matching a frame's schema
func CreateTableDDL(table string, f *frame.Frame, ifNotExists bool) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if ifNotExists {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(pq.QuoteIdentifier(table))
	sb.WriteString(" (")
	for i, name := range f.Columns() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(pq.QuoteIdentifier(name))
		sb.WriteString(" ")
		sb.WriteString(sqlType(f.Types()[name]))
	}
	sb.WriteString(")")
	return sb.String()
}

func sqlType(kind series.Kind) string {
	switch kind {
	case series.Float:
		return "DOUBLE PRECISION"
	case series.Int:
		return "BIGINT"
	case series.Bool:
		return "BOOLEAN"
	case series.Time:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}
