package core

import "errors"

// Error taxonomy for the API boundary. Handlers map these onto HTTP
// statuses: validation and duplicates to 400, credentials to 401, anything
// else to 500. Absent update/delete targets are silent no-ops, not errors.
var (
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyEmail    = errors.New("email is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrEmptyID       = errors.New("id is required")

	// ErrDuplicate covers unique-constraint violations (user email,
	// budget category, caller-supplied ids).
	ErrDuplicate = errors.New("duplicate key")

	// ErrInvalidCredentials is returned for unknown email and wrong
	// password alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrNotFound = errors.New("not found")
)

// IsValidation reports whether err is a required-field validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrEmptyEmail) ||
		errors.Is(err, ErrEmptyPassword) ||
		errors.Is(err, ErrEmptyID)
}
