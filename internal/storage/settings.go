package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledgercore/internal/core"
)

// SettingsRow is the native shape of a settings row. The schema carries a
// nullable user reference, but the API treats settings as one global
// record: reads take the first row, writes update every row.
type SettingsRow struct {
	ID                 int64
	UserID             sql.NullInt64
	SessionTimeout     int64
	LoginNotifications int64
}

// GetSettings returns the first settings record, or core.ErrNotFound when
// none exists yet.
func (r *SQLiteRepository) GetSettings(ctx context.Context) (SettingsRow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, session_timeout, login_notifications FROM settings LIMIT 1`)

	var s SettingsRow
	err := row.Scan(&s.ID, &s.UserID, &s.SessionTimeout, &s.LoginNotifications)
	if errors.Is(err, sql.ErrNoRows) {
		return SettingsRow{}, core.ErrNotFound
	}
	if err != nil {
		return SettingsRow{}, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

// UpsertSettings writes the global settings record unconditionally. When no
// row exists yet one is inserted, so repeated calls never create duplicates.
func (r *SQLiteRepository) UpsertSettings(ctx context.Context, sessionTimeout int, loginNotifications bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE settings SET session_timeout = ?, login_notifications = ?`,
		sessionTimeout, boolToInt(loginNotifications))
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("settings rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO settings (session_timeout, login_notifications) VALUES (?, ?)`,
		sessionTimeout, boolToInt(loginNotifications)); err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}
	return nil
}
