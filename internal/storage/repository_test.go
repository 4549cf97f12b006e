package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ledgercore/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite exercises the SQLite repository against a fresh
// on-disk database per test. An in-memory DSN would not work here because
// migrations run over their own connection.
type RepositoryTestSuite struct {
	suite.Suite
	repo *SQLiteRepository
	ctx  context.Context
}

func (suite *RepositoryTestSuite) SetupTest() {
	dbPath := filepath.Join(suite.T().TempDir(), "test.db")
	repo, err := NewSQLiteRepository(dbPath)
	require.NoError(suite.T(), err, "failed to create test database")
	suite.repo = repo
	suite.ctx = context.Background()
}

func (suite *RepositoryTestSuite) TearDownTest() {
	if suite.repo != nil {
		suite.repo.Close()
	}
}

func (suite *RepositoryTestSuite) createUser(email, role string) UserRow {
	row, err := suite.repo.CreateUser(suite.ctx, CreateUserParams{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	})
	require.NoError(suite.T(), err)
	return row
}

func (suite *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	suite.createUser("dup@example.com", core.RoleEmployee)

	_, err := suite.repo.CreateUser(suite.ctx, CreateUserParams{
		Name:         "Other",
		Email:        "dup@example.com",
		PasswordHash: "hash2",
	})
	assert.ErrorIs(suite.T(), err, core.ErrDuplicate)

	users, err := suite.repo.ListUsers(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), users, 1, "duplicate email must not create a second user")
}

func (suite *RepositoryTestSuite) TestCreateUserDefaultsRole() {
	row := suite.createUser("employee@example.com", "")
	assert.Equal(suite.T(), core.RoleEmployee, row.Role)
}

func (suite *RepositoryTestSuite) TestCreateUserCreatesDefaultSettings() {
	suite.createUser("settings@example.com", core.RoleEmployee)

	settings, err := suite.repo.GetSettings(suite.ctx)
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 30, settings.SessionTimeout)
	assert.EqualValues(suite.T(), 1, settings.LoginNotifications)
}

func (suite *RepositoryTestSuite) TestGetUserByEmailNotFound() {
	_, err := suite.repo.GetUserByEmail(suite.ctx, "nobody@example.com")
	assert.ErrorIs(suite.T(), err, core.ErrNotFound)
}

func (suite *RepositoryTestSuite) TestUpdateUserPartial() {
	row := suite.createUser("partial@example.com", core.RoleEmployee)

	name := "Renamed"
	twoFactor := true
	err := suite.repo.UpdateUser(suite.ctx, "1", UpdateUserParams{
		Name:             &name,
		TwoFactorEnabled: &twoFactor,
	})
	require.NoError(suite.T(), err)

	updated, err := suite.repo.GetUserByEmail(suite.ctx, "partial@example.com")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Renamed", updated.Name)
	assert.EqualValues(suite.T(), 1, updated.TwoFactorEnabled)
	assert.Equal(suite.T(), row.Email, updated.Email, "untouched fields keep their values")
	assert.Equal(suite.T(), row.Password, updated.Password)
}

func (suite *RepositoryTestSuite) TestUpdateUserUnknownIDIsNoOp() {
	name := "Ghost"
	err := suite.repo.UpdateUser(suite.ctx, "999", UpdateUserParams{Name: &name})
	assert.NoError(suite.T(), err)
}

func (suite *RepositoryTestSuite) TestDeleteUserLeavesExpenses() {
	suite.createUser("leaver@example.com", core.RoleEmployee)

	err := suite.repo.InsertExpense(suite.ctx, core.Expense{
		ID:         "exp-1",
		EmployeeID: "1",
		Name:       "Taxi",
		Amount:     12.50,
	})
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.repo.DeleteUser(suite.ctx, "1"))

	users, err := suite.repo.ListUsers(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), users)

	expenses, err := suite.repo.ListExpenses(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), expenses, 1, "expenses must survive their owner")
}

func (suite *RepositoryTestSuite) TestInsertExpenseDuplicateID() {
	exp := core.Expense{ID: "exp-1", EmployeeID: "1", Name: "Lunch", Amount: 10}
	require.NoError(suite.T(), suite.repo.InsertExpense(suite.ctx, exp))

	err := suite.repo.InsertExpense(suite.ctx, core.Expense{ID: "exp-1", EmployeeID: "2", Name: "Dinner", Amount: 20})
	assert.ErrorIs(suite.T(), err, core.ErrDuplicate)

	expenses, err := suite.repo.ListExpenses(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), expenses, 1)
	assert.Equal(suite.T(), "Lunch", expenses[0].Name, "first writer wins")
}

func (suite *RepositoryTestSuite) TestInsertExpenseDefaultsStatus() {
	require.NoError(suite.T(), suite.repo.InsertExpense(suite.ctx, core.Expense{
		ID: "exp-1", EmployeeID: "1", Name: "Lunch", Amount: 10,
	}))

	row, err := suite.repo.GetExpense(suite.ctx, "exp-1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), core.StatusPending, row.Status)
	assert.Equal(suite.T(), "pending", row.SyncStatus)
}

func (suite *RepositoryTestSuite) TestUpdateExpenseStatusOnly() {
	require.NoError(suite.T(), suite.repo.InsertExpense(suite.ctx, core.Expense{
		ID: "exp-1", EmployeeID: "1", Name: "Lunch", Amount: 10, Category: "food",
	}))

	require.NoError(suite.T(), suite.repo.UpdateExpenseStatus(suite.ctx, "exp-1", core.StatusApproved))

	row, err := suite.repo.GetExpense(suite.ctx, "exp-1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), core.StatusApproved, row.Status)
	assert.Equal(suite.T(), "Lunch", row.Name, "only status may change")
	assert.Equal(suite.T(), "food", row.Category)
}

func (suite *RepositoryTestSuite) TestSyncLifecycle() {
	require.NoError(suite.T(), suite.repo.InsertExpense(suite.ctx, core.Expense{
		ID: "exp-1", EmployeeID: "1", Name: "Lunch", Amount: 10,
	}))
	require.NoError(suite.T(), suite.repo.InsertExpense(suite.ctx, core.Expense{
		ID: "exp-2", EmployeeID: "1", Name: "Dinner", Amount: 20,
	}))

	pending, err := suite.repo.GetPendingSyncExpenses(suite.ctx, 10)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), pending, 2)

	require.NoError(suite.T(), suite.repo.MarkExpenseSynced(suite.ctx, "exp-1"))
	require.NoError(suite.T(), suite.repo.MarkExpenseSyncError(suite.ctx, "exp-2"))

	pending, err = suite.repo.GetPendingSyncExpenses(suite.ctx, 10)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), pending)

	synced, err := suite.repo.GetExpense(suite.ctx, "exp-1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "synced", synced.SyncStatus)
	assert.True(suite.T(), synced.SyncedAt.Valid)

	failed, err := suite.repo.GetExpense(suite.ctx, "exp-2")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "error", failed.SyncStatus)
}

func (suite *RepositoryTestSuite) TestUpsertBudgetOverwrites() {
	require.NoError(suite.T(), suite.repo.UpsertBudget(suite.ctx, "travel", 500))
	require.NoError(suite.T(), suite.repo.UpsertBudget(suite.ctx, "travel", 750))

	budgets, err := suite.repo.ListBudgets(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), budgets, 1, "one budget per category")
	assert.Equal(suite.T(), 750.0, budgets[0].LimitAmount)
}

func (suite *RepositoryTestSuite) TestDeleteBudget() {
	require.NoError(suite.T(), suite.repo.UpsertBudget(suite.ctx, "travel", 500))

	budgets, err := suite.repo.ListBudgets(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), budgets, 1)

	require.NoError(suite.T(), suite.repo.DeleteBudget(suite.ctx, "1"))

	budgets, err = suite.repo.ListBudgets(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), budgets)
}

func (suite *RepositoryTestSuite) TestClearNotificationsIsScoped() {
	notes := []core.Notification{
		{ID: "n1", RecipientID: "1", Message: "a"},
		{ID: "n2", RecipientID: "1", Message: "b"},
		{ID: "n3", RecipientID: "2", Message: "c"},
	}
	for _, n := range notes {
		require.NoError(suite.T(), suite.repo.InsertNotification(suite.ctx, n))
	}

	require.NoError(suite.T(), suite.repo.ClearNotifications(suite.ctx, "1"))

	remaining, err := suite.repo.ListNotifications(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), remaining, 1)
	assert.Equal(suite.T(), "2", remaining[0].RecipientID)
}

func (suite *RepositoryTestSuite) TestSettingsSingleton() {
	_, err := suite.repo.GetSettings(suite.ctx)
	assert.ErrorIs(suite.T(), err, core.ErrNotFound)

	require.NoError(suite.T(), suite.repo.UpsertSettings(suite.ctx, 45, false))
	require.NoError(suite.T(), suite.repo.UpsertSettings(suite.ctx, 45, false))

	row, err := suite.repo.GetSettings(suite.ctx)
	require.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), 45, row.SessionTimeout)
	assert.EqualValues(suite.T(), 0, row.LoginNotifications)

	var count int
	err = suite.repo.db.QueryRowContext(suite.ctx, `SELECT COUNT(*) FROM settings`).Scan(&count)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, count, "repeated upserts must not duplicate the record")
}

func (suite *RepositoryTestSuite) TestClearAllKeepsAdmins() {
	suite.createUser("admin@example.com", core.RoleAdmin)
	suite.createUser("employee@example.com", core.RoleEmployee)

	require.NoError(suite.T(), suite.repo.InsertExpense(suite.ctx, core.Expense{
		ID: "exp-1", EmployeeID: "2", Name: "Lunch", Amount: 10,
	}))
	require.NoError(suite.T(), suite.repo.UpsertBudget(suite.ctx, "food", 100))
	require.NoError(suite.T(), suite.repo.InsertNotification(suite.ctx, core.Notification{
		ID: "n1", RecipientID: "2", Message: "hello",
	}))

	require.NoError(suite.T(), suite.repo.ClearAll(suite.ctx))

	users, err := suite.repo.ListUsers(suite.ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), users, 1)
	assert.Equal(suite.T(), core.RoleAdmin, users[0].Role)

	expenses, err := suite.repo.ListExpenses(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), expenses)

	budgets, err := suite.repo.ListBudgets(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), budgets)

	notifications, err := suite.repo.ListNotifications(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), notifications)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("no such table: users")))
	assert.True(t, isUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)")))
}
