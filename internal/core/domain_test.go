package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupInputValidate(t *testing.T) {
	valid := SignupInput{Name: "Alice", Email: "a@example.com", Password: "pw"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		in   SignupInput
		want error
	}{
		{"missing name", SignupInput{Email: "a@example.com", Password: "pw"}, ErrEmptyName},
		{"blank name", SignupInput{Name: "  ", Email: "a@example.com", Password: "pw"}, ErrEmptyName},
		{"missing email", SignupInput{Name: "Alice", Password: "pw"}, ErrEmptyEmail},
		{"missing password", SignupInput{Name: "Alice", Email: "a@example.com"}, ErrEmptyPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.in.Validate(), tt.want)
		})
	}
}

func TestRoleOrDefault(t *testing.T) {
	assert.Equal(t, RoleEmployee, RoleOrDefault(""))
	assert.Equal(t, RoleEmployee, RoleOrDefault("  "))
	assert.Equal(t, RoleAdmin, RoleOrDefault(RoleAdmin))
}

func TestStatusOrDefault(t *testing.T) {
	assert.Equal(t, StatusPending, StatusOrDefault(""))
	assert.Equal(t, StatusApproved, StatusOrDefault(StatusApproved))
}

func TestExpenseValidate(t *testing.T) {
	assert.NoError(t, Expense{ID: "e1", Name: "Lunch"}.Validate())
	assert.ErrorIs(t, Expense{Name: "Lunch"}.Validate(), ErrEmptyID)
	assert.ErrorIs(t, Expense{ID: "e1"}.Validate(), ErrEmptyName)
}

func TestNotificationValidate(t *testing.T) {
	assert.NoError(t, Notification{ID: "n1"}.Validate())
	assert.ErrorIs(t, Notification{}.Validate(), ErrEmptyID)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 30, s.SessionTimeout)
	assert.True(t, s.LoginNotifications)
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrEmptyName))
	assert.True(t, IsValidation(ErrEmptyID))
	assert.False(t, IsValidation(ErrDuplicate))
	assert.False(t, IsValidation(nil))
}
