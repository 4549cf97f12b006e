package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ledgercore/internal/amqp"
	"ledgercore/internal/core"
	"ledgercore/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAppender struct {
	appended []core.Expense
	err      error
}

func (f *fakeAppender) Append(_ context.Context, e core.Expense) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, e)
	return nil
}

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestHandleSyncMessageMarksSynced(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	appender := &fakeAppender{}
	w := NewSyncWorker(repo, appender, 10)

	require.NoError(t, repo.InsertExpense(ctx, core.Expense{
		ID: "e1", EmployeeID: "1", Name: "Taxi", Amount: 12.5, Category: "travel",
	}))

	err := w.HandleSyncMessage(ctx, amqp.NewExpenseSyncMessage("e1", 1))
	require.NoError(t, err)

	require.Len(t, appender.appended, 1)
	assert.Equal(t, "Taxi", appender.appended[0].Name)

	row, err := repo.GetExpense(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "synced", row.SyncStatus)
}

func TestHandleSyncMessageAppendFailure(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	appender := &fakeAppender{err: errors.New("quota exceeded")}
	w := NewSyncWorker(repo, appender, 10)

	require.NoError(t, repo.InsertExpense(ctx, core.Expense{
		ID: "e1", EmployeeID: "1", Name: "Taxi", Amount: 12.5,
	}))

	err := w.HandleSyncMessage(ctx, amqp.NewExpenseSyncMessage("e1", 1))
	assert.Error(t, err)

	row, err := repo.GetExpense(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "error", row.SyncStatus)
}

func TestHandleSyncMessageDropsDeletedExpense(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	appender := &fakeAppender{}
	w := NewSyncWorker(repo, appender, 10)

	require.NoError(t, repo.InsertExpense(ctx, core.Expense{
		ID: "e1", EmployeeID: "1", Name: "Taxi", Amount: 12.5,
	}))
	require.NoError(t, repo.ClearAll(ctx))

	// The expense vanished between publish and delivery; the message must
	// be dropped, not requeued.
	err := w.HandleSyncMessage(ctx, amqp.NewExpenseSyncMessage("e1", 1))
	assert.NoError(t, err)
	assert.Empty(t, appender.appended)
}

func TestDiscardSyncMessage(t *testing.T) {
	err := DiscardSyncMessage(context.Background(), amqp.NewExpenseSyncMessage("e1", 1))
	assert.NoError(t, err)
}

func TestProcessPendingExpenses(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	appender := &fakeAppender{}
	w := NewSyncWorker(repo, appender, 10)

	require.NoError(t, repo.InsertExpense(ctx, core.Expense{ID: "e1", EmployeeID: "1", Name: "A", Amount: 1}))
	require.NoError(t, repo.InsertExpense(ctx, core.Expense{ID: "e2", EmployeeID: "1", Name: "B", Amount: 2}))
	require.NoError(t, repo.MarkExpenseSynced(ctx, "e1"))

	require.NoError(t, w.ProcessPendingExpenses(ctx))

	require.Len(t, appender.appended, 1, "already-synced rows are not re-exported")
	assert.Equal(t, "e2", appender.appended[0].ID)
}

func TestStartupSyncCheckContinuesOnFailure(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	appender := &fakeAppender{err: errors.New("unreachable")}
	w := NewSyncWorker(repo, appender, 10)

	require.NoError(t, repo.InsertExpense(ctx, core.Expense{ID: "e1", EmployeeID: "1", Name: "A", Amount: 1}))

	// Individual failures are logged, not returned.
	assert.NoError(t, w.StartupSyncCheck(ctx))

	row, err := repo.GetExpense(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "error", row.SyncStatus)
}
