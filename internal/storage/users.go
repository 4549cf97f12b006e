package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ledgercore/internal/core"
)

// UserRow is the native shape of a users row. The password column holds the
// bcrypt hash and is stripped by the transform layer before any response.
type UserRow struct {
	ID               int64
	Name             string
	Email            string
	Password         string
	Role             string
	Phone            sql.NullString
	ManagerID        sql.NullString
	Created          sql.NullString
	UniqueID         sql.NullString
	ProfileImage     sql.NullString
	TwoFactorEnabled int64
}

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	ManagerID    string
	Created      string
	UniqueID     string
}

// UpdateUserParams carries a field-level partial update; nil pointers leave
// the stored value untouched.
type UpdateUserParams struct {
	Name             *string
	Phone            *string
	ProfileImage     *string
	TwoFactorEnabled *bool
	ManagerID        *string
	PasswordHash     *string
}

const userColumns = `id, name, email, password, role, phone, manager_id, created, unique_id, profile_image, two_factor_enabled`

func scanUser(row interface{ Scan(...any) error }) (UserRow, error) {
	var u UserRow
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role,
		&u.Phone, &u.ManagerID, &u.Created, &u.UniqueID, &u.ProfileImage,
		&u.TwoFactorEnabled)
	return u, err
}

// CreateUser inserts a user and its default settings record. The settings
// insert is best-effort: a failure after the user is committed is logged
// and not rolled back.
func (r *SQLiteRepository) CreateUser(ctx context.Context, p CreateUserParams) (UserRow, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password, role, manager_id, created, unique_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Email, p.PasswordHash, core.RoleOrDefault(p.Role),
		nullable(p.ManagerID), nullable(p.Created), nullable(p.UniqueID))
	if err != nil {
		return UserRow{}, mapConstraintErr(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return UserRow{}, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO settings (user_id) VALUES (?)`, id); err != nil {
		slog.WarnContext(ctx, "Failed to create default settings for new user",
			"user_id", id, "error", err)
	}

	return r.getUserByID(ctx, id)
}

func (r *SQLiteRepository) getUserByID(ctx context.Context, id int64) (UserRow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRow{}, core.ErrNotFound
	}
	if err != nil {
		return UserRow{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (UserRow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return UserRow{}, core.ErrNotFound
	}
	if err != nil {
		return UserRow{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]UserRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []UserRow
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies a partial update. Name and manager keep their stored
// value when absent (COALESCE); the remaining fields are only included in
// the statement when set. An unknown id is a silent no-op.
func (r *SQLiteRepository) UpdateUser(ctx context.Context, id string, p UpdateUserParams) error {
	query := `UPDATE users SET name = COALESCE(?, name), manager_id = COALESCE(?, manager_id)`
	args := []any{nullablePtr(p.Name), nullablePtr(p.ManagerID)}

	var extra []string
	if p.Phone != nil {
		extra = append(extra, "phone = ?")
		args = append(args, *p.Phone)
	}
	if p.ProfileImage != nil {
		extra = append(extra, "profile_image = ?")
		args = append(args, *p.ProfileImage)
	}
	if p.TwoFactorEnabled != nil {
		extra = append(extra, "two_factor_enabled = ?")
		args = append(args, boolToInt(*p.TwoFactorEnabled))
	}
	if p.PasswordHash != nil {
		extra = append(extra, "password = ?")
		args = append(args, *p.PasswordHash)
	}
	if len(extra) > 0 {
		query += ", " + strings.Join(extra, ", ")
	}

	query += ` WHERE id = ?`
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// DeleteUser removes a user. Expenses and notifications referencing the
// user are left in place (no cascade); an unknown id is a silent no-op.
func (r *SQLiteRepository) DeleteUser(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullablePtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
