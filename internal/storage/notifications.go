package storage

import (
	"context"
	"fmt"

	"ledgercore/internal/core"
)

// NotificationRow is the native shape of a notifications row; read is
// stored as 0/1 and coerced to a boolean by the transform layer.
type NotificationRow struct {
	ID          string
	RecipientID string
	Message     string
	Date        string
	Read        int64
}

// InsertNotification stores one notification with its caller-supplied id.
func (r *SQLiteRepository) InsertNotification(ctx context.Context, n core.Notification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, recipient_id, message, date, read)
		 VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.RecipientID, n.Message, n.Date, boolToInt(n.Read))
	if err != nil {
		return mapConstraintErr(fmt.Errorf("insert notification: %w", err))
	}
	return nil
}

func (r *SQLiteRepository) ListNotifications(ctx context.Context) ([]NotificationRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, recipient_id, message, date, read FROM notifications ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []NotificationRow
	for rows.Next() {
		var n NotificationRow
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &n.Date, &n.Read); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// ClearNotifications deletes every notification addressed to one recipient
// and nothing else.
func (r *SQLiteRepository) ClearNotifications(ctx context.Context, recipientID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE recipient_id = ?`, recipientID); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}
