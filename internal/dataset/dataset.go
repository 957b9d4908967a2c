// Package dataset defines how the pipeline reads the sales table. A Store is
// a borrowed, read-only handle: the orchestrator opens one per turn through a
// Factory and is responsible for closing it on every exit path.
package dataset

import (
	"context"
	"fmt"
)

// Result is an executed query's rows plus column order. Values are plain
// scalars (string, numeric, nil); no column typing beyond position.
type Result struct {
	Columns []string
	Rows    [][]any
}

type Store interface {
	// Query executes a literal read-only statement and fetches all rows
	// eagerly. It never closes the store.
	Query(ctx context.Context, sql string) (Result, error)
	Close() error
}

// Factory hands out an independent Store per pipeline turn.
type Factory interface {
	Open(ctx context.Context) (Store, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context) (Store, error)

func (f FactoryFunc) Open(ctx context.Context) (Store, error) {
	return f(ctx)
}

// Collect drains sql.Rows into a Result, normalizing driver scalars. Both
// backends fetch eagerly so a Result is always fully materialized.
func Collect(rows RowIterator) (Result, error) {
	columns, err := rows.Columns()
	if err != nil {
		return Result{}, fmt.Errorf("query columns: %w", err)
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return Result{}, fmt.Errorf("scan row: %w", err)
		}
		resultRows = append(resultRows, NormalizeValues(values))
	}
	if err := rows.Err(); err != nil {
		return Result{}, fmt.Errorf("iterate rows: %w", err)
	}
	return Result{Columns: columns, Rows: resultRows}, nil
}

// RowIterator matches the subset of *sql.Rows that Collect needs.
type RowIterator interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// NormalizeValues converts driver-specific scalars into the plain forms the
// summarizer serializes, mirroring what each backend's scan produces.
func NormalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}
