package storage

import (
	"context"
	"fmt"
)

// BudgetRow is the native shape of a budgets row; limit_amount is surfaced
// as "limit" by the transform layer.
type BudgetRow struct {
	ID          int64
	Category    string
	LimitAmount float64
}

// UpsertBudget inserts a budget or overwrites the limit of an existing
// category in place. One budget per category, always.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, category string, limit float64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (category, limit_amount) VALUES (?, ?)
		 ON CONFLICT(category) DO UPDATE SET limit_amount = excluded.limit_amount`,
		category, limit)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]BudgetRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, limit_amount FROM budgets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []BudgetRow
	for rows.Next() {
		var b BudgetRow
		if err := rows.Scan(&b.ID, &b.Category, &b.LimitAmount); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// DeleteBudget removes a budget by storage id; absent ids are a no-op.
func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}
