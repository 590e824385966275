package repository

import (
	"context"
	"fmt"

	"ecodeli/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepo represents notification repository.
type NotificationRepo struct{ db *pgxpool.Pool }

// NewNotificationRepo creates a new NotificationRepo.
func NewNotificationRepo(db *pgxpool.Pool) *NotificationRepo { return &NotificationRepo{db: db} }

// Insert stores n and fills its ID and CreatedAt.
func (r *NotificationRepo) Insert(ctx context.Context, n *domain.Notification) error {
	err := r.db.QueryRow(ctx, `
        INSERT INTO notifications (user_id, kind, title, body)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, n.UserID, string(n.Kind), n.Title, n.Body).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, user_id, kind, title, body, read, created_at
        FROM notifications
        WHERE user_id = $1 AND (NOT $2 OR NOT read)
        ORDER BY created_at DESC, id DESC
        LIMIT $3
    `, userID, unreadOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications of %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]domain.Notification, 0, limit)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags the notification as read if it belongs to userID.
// It reports whether such a notification exists.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID int64) (bool, error) {
	ct, err := r.db.Exec(ctx, `UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
