// Package postgres backs the sales dataset with an existing Postgres table
// for deployments where the data already lives in a warehouse.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/salespilot/salespilot/internal/dataset"
)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

type Factory struct {
	db *sql.DB
}

func NewFactory(ctx context.Context, cfg Config) (*Factory, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dataset dsn is required")
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open dataset db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping dataset db: %w", err)
	}

	return &Factory{db: db}, nil
}

// NewFactoryWithDB wraps an existing handle. Used by tests.
func NewFactoryWithDB(db *sql.DB) *Factory {
	return &Factory{db: db}
}

// Open checks out a dedicated connection so each pipeline turn runs on an
// independent handle. Closing the store returns the connection to the pool.
func (f *Factory) Open(ctx context.Context) (dataset.Store, error) {
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire dataset connection: %w", err)
	}
	return &store{conn: conn}, nil
}

func (f *Factory) Ping(ctx context.Context) error {
	return f.db.PingContext(ctx)
}

func (f *Factory) Close() error {
	return f.db.Close()
}

type store struct {
	conn *sql.Conn
}

func (s *store) Query(ctx context.Context, sqlText string) (dataset.Result, error) {
	rows, err := s.conn.QueryContext(ctx, sqlText)
	if err != nil {
		return dataset.Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return dataset.Collect(rows)
}

func (s *store) Close() error {
	return s.conn.Close()
}
