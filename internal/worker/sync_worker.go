// Package worker exports saved expenses to Google Sheets, driven by AMQP
// messages with a periodic scan of unsynced rows as backup.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ledgercore/internal/amqp"
	"ledgercore/internal/core"
	"ledgercore/internal/sheets"
	"ledgercore/internal/storage"
	"ledgercore/internal/transform"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheets    sheets.ExpenseAppender
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheets sheets.ExpenseAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// DiscardSyncMessage acknowledges a sync message without exporting it.
// Used when no sheet is configured, so the queue drains instead of growing.
func DiscardSyncMessage(ctx context.Context, msg *amqp.ExpenseSyncMessage) error {
	slog.InfoContext(ctx, "Discarding sync message, export disabled", "id", msg.ID)
	return nil
}

// HandleSyncMessage processes a single expense sync message from AMQP.
// A message whose expense no longer exists is dropped; returning an error
// would requeue it forever.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ExpenseSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	row, err := w.storage.GetExpense(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Expense no longer exists, dropping sync message", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	if err := w.syncExpenseToSheets(ctx, transform.Expense(row)); err != nil {
		return fmt.Errorf("sync expense to sheets: %w", err)
	}

	return nil
}

// ProcessPendingExpenses exports expenses that have not been synced yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingExpenses(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncExpenses(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(pending))

	for _, row := range pending {
		if err := w.syncExpenseToSheets(ctx, transform.Expense(row)); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense", "id", row.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains a larger batch of unsynced expenses at worker
// startup to recover from missed messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncExpenses(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending expenses for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending expenses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending expenses on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, row := range pending {
		if err := w.syncExpenseToSheets(ctx, transform.Expense(row)); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense during startup",
				"id", row.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) syncExpenseToSheets(ctx context.Context, expense core.Expense) error {
	if err := w.sheets.Append(ctx, expense); err != nil {
		if markErr := w.storage.MarkExpenseSyncError(ctx, expense.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", expense.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkExpenseSynced(ctx, expense.ID); err != nil {
		// The append itself worked, so don't fail the message.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", expense.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced expense",
		"id", expense.ID,
		"name", expense.Name,
		"amount", expense.Amount)

	return nil
}
