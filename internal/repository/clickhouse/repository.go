// Package clickhouse stores the main chain in ClickHouse and serves it to history scans.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// Rows is the part of driver.Rows the repository reads through.
	Rows interface {
		Next() bool
		Scan(dest ...any) error
		Err() error
		Close() error
	}

	// Batch is the part of driver.Batch the repository writes through.
	Batch interface {
		Append(v ...any) error
		Send() error
		Abort() error
	}

	// Conn is the part of driver.Conn the repository uses.
	Conn interface {
		Query(ctx context.Context, query string, args ...any) (Rows, error)
		PrepareBatch(ctx context.Context, query string) (Batch, error)
		Close() error
	}
)

type driverConn struct {
	conn driver.Conn
}

func (c driverConn) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c driverConn) PrepareBatch(ctx context.Context, query string) (Batch, error) {
	batch, err := c.conn.PrepareBatch(ctx, query)
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (c driverConn) Close() error {
	return c.conn.Close()
}

// Config selects the database and the chain stored in it.
type Config struct {
	DSN     string
	Network string
	// PageSize is the number of blocks loaded per query while iterating.
	PageSize uint64
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if c.DSN == "" {
		return errors.New("clickhouse dsn is required")
	}
	if c.Network == "" {
		return errors.New("network is required")
	}
	if c.PageSize == 0 {
		return errors.New("page size must be positive")
	}
	return nil
}

type Repository struct {
	conn     Conn
	network  string
	pageSize uint64
	metrics  Metrics
}

func NewRepository(cfg Config, metrics Metrics) (*Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if metrics == nil {
		return nil, errors.New("repository metrics is required")
	}

	options, err := clickhouse.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &Repository{
		conn:     driverConn{conn: conn},
		network:  cfg.Network,
		pageSize: cfg.PageSize,
		metrics:  metrics,
	}, nil
}

// Close releases the connection.
func (r *Repository) Close() error {
	return r.conn.Close()
}
