// Package duckdb backs the sales dataset with an in-memory DuckDB instance
// reading a local CSV or parquet file.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/salespilot/salespilot/internal/dataset"
	"github.com/salespilot/salespilot/internal/schema"
)

type Config struct {
	// Path is the local sales data file. Format is inferred from the
	// extension unless set explicitly ("csv" or "parquet").
	Path   string
	Format string
}

type Factory struct {
	cfg Config
}

func NewFactory(cfg Config) (*Factory, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("dataset path is required")
	}
	format, err := resolveFormat(cfg)
	if err != nil {
		return nil, err
	}
	cfg.Format = format
	return &Factory{cfg: cfg}, nil
}

// Open starts a fresh in-memory DuckDB with the sales table exposed as a
// view over the configured file. Each call returns an independent handle.
func (f *Factory) Open(ctx context.Context) (dataset.Store, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	var readFn string
	switch f.cfg.Format {
	case "csv":
		readFn = "read_csv_auto"
	case "parquet":
		readFn = "read_parquet"
	default:
		_ = db.Close()
		return nil, fmt.Errorf("unsupported dataset format %q", f.cfg.Format)
	}

	viewSQL := fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS SELECT * FROM %s(%s)`,
		quoteIdent(schema.TableName), readFn, quoteString(f.cfg.Path))
	if _, err := db.ExecContext(ctx, viewSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create view for table %q: %w", schema.TableName, err)
	}
	return &store{db: db}, nil
}

type store struct {
	db *sql.DB
}

func (s *store) Query(ctx context.Context, sqlText string) (dataset.Result, error) {
	sqlText = stripTrailingSemicolons(sqlText)
	if sqlText == "" {
		return dataset.Result{}, fmt.Errorf("sql is required")
	}

	rows, err := s.db.QueryContext(ctx, sqlText)
	if err != nil {
		return dataset.Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return dataset.Collect(rows)
}

func (s *store) Close() error {
	return s.db.Close()
}

func resolveFormat(cfg Config) (string, error) {
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "" {
		switch strings.ToLower(filepath.Ext(cfg.Path)) {
		case ".csv":
			format = "csv"
		case ".parquet":
			format = "parquet"
		default:
			return "", fmt.Errorf("cannot infer dataset format from %q", cfg.Path)
		}
	}
	switch format {
	case "csv", "parquet":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported dataset format %q", format)
	}
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func quoteString(value string) string {
	return `'` + strings.ReplaceAll(value, `'`, `''`) + `'`
}

func stripTrailingSemicolons(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	return trimmed
}
