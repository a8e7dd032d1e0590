package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dtroode/tasktracker-server/database"
	"github.com/dtroode/tasktracker-server/internal/model"
)

var (
	_ model.Pinger   = (*Connection)(nil)
	_ model.Resetter = (*Connection)(nil)
)

// Connection owns the pgx pool and a database/sql view of it for goose.
type Connection struct {
	*pgxpool.Pool
	sqlDB *sql.DB
}

// NewConnection opens the pool, checks connectivity and applies migrations.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	conn := &Connection{
		Pool:  pool,
		sqlDB: stdlib.OpenDB(*pool.Config().ConnConfig),
	}

	if err := database.Migrate(ctx, conn.sqlDB); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return conn, nil
}

func (s *Connection) Close() error {
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

func (s *Connection) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return s.Pool.Ping(ctx)
}

// Reset truncates all application tables.
func (s *Connection) Reset(ctx context.Context) error {
	if s.sqlDB == nil {
		return fmt.Errorf("connection is not initialized")
	}
	return database.Reset(ctx, s.sqlDB)
}
