package database

import (
	"context"
	"database/sql"
	"fmt"
)

const resetQuery = `TRUNCATE TABLE tasks, users`

// Reset removes every task and user. It backs the test-only maintenance endpoint.
func Reset(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, resetQuery); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}
