package transform

import (
	"database/sql"
	"encoding/json"
	"testing"

	"ledgercore/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStripsPasswordAndStringifiesID(t *testing.T) {
	row := storage.UserRow{
		ID:               7,
		Name:             "Alice",
		Email:            "a@example.com",
		Password:         "$2a$10$hash",
		Role:             "EMPLOYEE",
		Phone:            sql.NullString{String: "555-0100", Valid: true},
		TwoFactorEnabled: 1,
	}

	u := User(row)
	assert.Equal(t, "7", u.ID)
	assert.Equal(t, "555-0100", u.Phone)
	assert.True(t, u.TwoFactorEnabled)

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hash")
	assert.NotContains(t, string(out), "password")
}

func TestUserOmitsAbsentOptionals(t *testing.T) {
	u := User(storage.UserRow{ID: 1, Name: "A", Email: "a@example.com", Role: "ADMIN"})

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "managerId")
	assert.NotContains(t, string(out), "phone")
	assert.Contains(t, string(out), `"twoFactorEnabled":false`)
}

func TestBudgetRenamesLimitAmount(t *testing.T) {
	b := Budget(storage.BudgetRow{ID: 3, Category: "travel", LimitAmount: 500})
	assert.Equal(t, "3", b.ID)
	assert.Equal(t, 500.0, b.Limit)

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"limit":500`)
	assert.NotContains(t, string(out), "limit_amount")
}

func TestExpenseStripsSyncMetadata(t *testing.T) {
	e := Expense(storage.ExpenseRow{
		ID: "e1", EmployeeID: "1", Name: "Taxi", Amount: 12.5,
		SyncStatus: "pending",
	})

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "sync")
}

func TestNotificationCoercesRead(t *testing.T) {
	assert.False(t, Notification(storage.NotificationRow{ID: "n1", Read: 0}).Read)
	assert.True(t, Notification(storage.NotificationRow{ID: "n1", Read: 1}).Read)
}

func TestSettingsCoercion(t *testing.T) {
	s := Settings(storage.SettingsRow{SessionTimeout: 45, LoginNotifications: 0})
	assert.Equal(t, 45, s.SessionTimeout)
	assert.False(t, s.LoginNotifications)
}

func TestSlicesAreNeverNil(t *testing.T) {
	out, err := json.Marshal(Users(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))

	out, err = json.Marshal(Expenses(nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}
