// Package storage implements the single SQLite backing behind the
// credential and domain store contracts. Rows keep their native shapes
// (integer booleans, limit_amount, sync metadata); the transform package
// maps them to the canonical API shapes.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ledgercore/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ClearAll deletes all expenses, budgets and notifications, and every user
// whose role is not ADMIN. The four deletes are independent statements; a
// failure partway through leaves the earlier deletes committed.
func (r *SQLiteRepository) ClearAll(ctx context.Context) error {
	var firstErr error
	statements := []string{
		`DELETE FROM expenses`,
		`DELETE FROM budgets`,
		`DELETE FROM notifications`,
		`DELETE FROM users WHERE role != 'ADMIN'`,
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("clear all: %w", err)
		}
	}
	return firstErr
}

// isUniqueViolation detects SQLite unique-constraint failures from the
// driver error text; modernc.org/sqlite exposes no sentinel for them.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed") && strings.Contains(msg, "2067")
}

// mapConstraintErr rewrites a unique violation as core.ErrDuplicate so
// handlers can map it to a 400 without leaking schema details.
func mapConstraintErr(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", core.ErrDuplicate, err)
	}
	return err
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
