// Package postgres opens the database connection and keeps the schema the
// stores expect in place.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects through the pgx stdlib driver and verifies connectivity.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
// Safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS books (
			id               TEXT PRIMARY KEY,
			title            TEXT NOT NULL,
			author           TEXT NOT NULL,
			isbn             TEXT NOT NULL UNIQUE,
			total_copies     INTEGER NOT NULL,
			available_copies INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			email    TEXT NOT NULL,
			role     TEXT NOT NULL,
			password TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (lower(email))`,
		`CREATE TABLE IF NOT EXISTS loans (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			book_id       TEXT NOT NULL,
			borrow_date   DATE NOT NULL,
			due_date      DATE NOT NULL,
			returned_date DATE
		)`,
		`CREATE INDEX IF NOT EXISTS loans_user_idx ON loans (user_id)`,
		`CREATE TABLE IF NOT EXISTS fines (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL,
			loan_id      TEXT NOT NULL UNIQUE,
			total_amount INTEGER NOT NULL,
			paid_amount  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS fines_user_idx ON fines (user_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
