package supabase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"love-surprise-backend/internal/models"
)

func (d *DatabaseClient) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	surpriseID := uuid.NullUUID{UUID: n.SurpriseID, Valid: n.SurpriseID != uuid.Nil}
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO notifications (id, user_id, surprise_id, type, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, n.ID, n.UserID, surpriseID, n.Type, n.Message).Scan(&n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotifications returns the newest notifications of a user first.
func (d *DatabaseClient) ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, user_id, surprise_id, type, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var surpriseID uuid.NullUUID
		if err := rows.Scan(&n.ID, &n.UserID, &surpriseID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.SurpriseID = surpriseID.UUID
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (d *DatabaseClient) MarkNotificationRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
