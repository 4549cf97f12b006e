package core

import "strings"

const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Default settings values used when no settings record exists yet.
const (
	DefaultSessionTimeout     = 30
	DefaultLoginNotifications = true
)

type (
	// User is the canonical API shape of a user record. The password hash
	// lives only in the storage layer and never crosses the API boundary.
	User struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		Email            string `json:"email"`
		Role             string `json:"role"`
		ManagerID        string `json:"managerId,omitempty"`
		Created          string `json:"created,omitempty"`
		UniqueID         string `json:"uniqueId,omitempty"`
		ProfileImage     string `json:"profileImage,omitempty"`
		Phone            string `json:"phone,omitempty"`
		TwoFactorEnabled bool   `json:"twoFactorEnabled"`
	}

	// Expense keeps the caller-supplied id verbatim; the backend never
	// generates expense identifiers.
	Expense struct {
		ID         string  `json:"id"`
		EmployeeID string  `json:"employeeId"`
		Name       string  `json:"name"`
		Amount     float64 `json:"amount"`
		Category   string  `json:"category"`
		Date       string  `json:"date"`
		Status     string  `json:"status"`
	}

	// Budget is keyed by category; the storage column for Limit is
	// limit_amount ("limit" is reserved in SQL).
	Budget struct {
		ID       string  `json:"id"`
		Category string  `json:"category"`
		Limit    float64 `json:"limit"`
	}

	Notification struct {
		ID          string `json:"id"`
		RecipientID string `json:"recipientId"`
		Message     string `json:"message"`
		Date        string `json:"date"`
		Read        bool   `json:"read"`
	}

	// Settings is a single global record at the API boundary, even though
	// the schema carries a nullable user reference.
	Settings struct {
		SessionTimeout     int  `json:"sessionTimeout"`
		LoginNotifications bool `json:"loginNotifications"`
	}
)

// SignupInput carries the fields accepted by the signup endpoint.
type SignupInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	ManagerID string `json:"managerId"`
	Created   string `json:"created"`
	UniqueID  string `json:"uniqueId"`
}

func (in SignupInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(in.Email) == "" {
		return ErrEmptyEmail
	}
	if in.Password == "" {
		return ErrEmptyPassword
	}
	return nil
}

// RoleOrDefault normalizes an empty role to EMPLOYEE.
func RoleOrDefault(role string) string {
	if strings.TrimSpace(role) == "" {
		return RoleEmployee
	}
	return role
}

// StatusOrDefault normalizes an empty expense status to PENDING.
func StatusOrDefault(status string) string {
	if strings.TrimSpace(status) == "" {
		return StatusPending
	}
	return status
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

func (n Notification) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return ErrEmptyID
	}
	return nil
}

// DefaultSettings returns the settings served before any record exists.
func DefaultSettings() Settings {
	return Settings{
		SessionTimeout:     DefaultSessionTimeout,
		LoginNotifications: DefaultLoginNotifications,
	}
}
