// Package sheets defines the port the export worker writes expenses through.
package sheets

import (
	"context"

	"ledgercore/internal/core"
)

// ExpenseAppender appends one expense as a row to an external sheet.
type ExpenseAppender interface {
	Append(ctx context.Context, expense core.Expense) error
}
