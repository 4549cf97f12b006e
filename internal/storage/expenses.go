package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledgercore/internal/core"
)

// ExpenseRow is the native shape of an expenses row, including the export
// pipeline metadata the transform layer strips from API responses.
type ExpenseRow struct {
	ID         string
	EmployeeID string
	Name       string
	Amount     float64
	Category   string
	Date       string
	Status     string
	SyncStatus string
	SyncedAt   sql.NullTime
}

const expenseColumns = `id, employee_id, name, amount, category, date, status, sync_status, synced_at`

func scanExpense(row interface{ Scan(...any) error }) (ExpenseRow, error) {
	var e ExpenseRow
	err := row.Scan(&e.ID, &e.EmployeeID, &e.Name, &e.Amount, &e.Category,
		&e.Date, &e.Status, &e.SyncStatus, &e.SyncedAt)
	return e, err
}

// InsertExpense stores one expense, preserving the caller-supplied id.
// A duplicate id fails with core.ErrDuplicate; two rows can never share one.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, employee_id, name, amount, category, date, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.EmployeeID, e.Name, e.Amount, e.Category, e.Date,
		core.StatusOrDefault(e.Status))
	if err != nil {
		return mapConstraintErr(fmt.Errorf("insert expense: %w", err))
	}
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (ExpenseRow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ExpenseRow{}, core.ErrNotFound
	}
	if err != nil {
		return ExpenseRow{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]ExpenseRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []ExpenseRow
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpenseStatus overwrites the status field and nothing else. Any
// value may replace any other; there is no transition graph. An unknown id
// is a silent no-op.
func (r *SQLiteRepository) UpdateExpenseStatus(ctx context.Context, id, status string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("update expense status: %w", err)
	}
	return nil
}

// GetPendingSyncExpenses returns expenses not yet exported, oldest first.
func (r *SQLiteRepository) GetPendingSyncExpenses(ctx context.Context, limit int) ([]ExpenseRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE sync_status = 'pending' ORDER BY rowid LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync expenses: %w", err)
	}
	defer rows.Close()

	var expenses []ExpenseRow
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *SQLiteRepository) MarkExpenseSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP WHERE id = ?`,
		id); err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkExpenseSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET sync_status = 'error' WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark expense sync error: %w", err)
	}
	return nil
}
