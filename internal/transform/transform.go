// Package transform maps native storage rows to the canonical JSON shapes
// served at the API boundary: integer identifiers become "id" strings,
// 0/1 integers become booleans, limit_amount becomes "limit", and
// storage-only metadata (password hash, sync columns, the settings user
// reference) is stripped.
package transform

import (
	"strconv"

	"ledgercore/internal/core"
	"ledgercore/internal/storage"
)

func User(row storage.UserRow) core.User {
	return core.User{
		ID:               strconv.FormatInt(row.ID, 10),
		Name:             row.Name,
		Email:            row.Email,
		Role:             row.Role,
		ManagerID:        row.ManagerID.String,
		Created:          row.Created.String,
		UniqueID:         row.UniqueID.String,
		ProfileImage:     row.ProfileImage.String,
		Phone:            row.Phone.String,
		TwoFactorEnabled: row.TwoFactorEnabled != 0,
	}
}

func Users(rows []storage.UserRow) []core.User {
	users := make([]core.User, len(rows))
	for i, row := range rows {
		users[i] = User(row)
	}
	return users
}

func Expense(row storage.ExpenseRow) core.Expense {
	return core.Expense{
		ID:         row.ID,
		EmployeeID: row.EmployeeID,
		Name:       row.Name,
		Amount:     row.Amount,
		Category:   row.Category,
		Date:       row.Date,
		Status:     row.Status,
	}
}

func Expenses(rows []storage.ExpenseRow) []core.Expense {
	expenses := make([]core.Expense, len(rows))
	for i, row := range rows {
		expenses[i] = Expense(row)
	}
	return expenses
}

func Budget(row storage.BudgetRow) core.Budget {
	return core.Budget{
		ID:       strconv.FormatInt(row.ID, 10),
		Category: row.Category,
		Limit:    row.LimitAmount,
	}
}

func Budgets(rows []storage.BudgetRow) []core.Budget {
	budgets := make([]core.Budget, len(rows))
	for i, row := range rows {
		budgets[i] = Budget(row)
	}
	return budgets
}

func Notification(row storage.NotificationRow) core.Notification {
	return core.Notification{
		ID:          row.ID,
		RecipientID: row.RecipientID,
		Message:     row.Message,
		Date:        row.Date,
		Read:        row.Read != 0,
	}
}

func Notifications(rows []storage.NotificationRow) []core.Notification {
	notifications := make([]core.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = Notification(row)
	}
	return notifications
}

func Settings(row storage.SettingsRow) core.Settings {
	return core.Settings{
		SessionTimeout:     int(row.SessionTimeout),
		LoginNotifications: row.LoginNotifications != 0,
	}
}
