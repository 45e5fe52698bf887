package db

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables the service needs when they are
// missing. Safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bogo_rules (
			position INT PRIMARY KEY,
			buy_product TEXT NOT NULL,
			buy_qty INT NOT NULL DEFAULT 0,
			get_product INT NOT NULL DEFAULT 0,
			get_qty INT NOT NULL DEFAULT 1,
			discount INT NOT NULL DEFAULT 0,
			start_date DATE,
			end_date DATE
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			price NUMERIC(12,2) NOT NULL,
			stock INT NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
