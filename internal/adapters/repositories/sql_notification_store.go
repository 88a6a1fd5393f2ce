package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fleet-route-service/internal/domain"
	"fmt"
)

// SQL-backed NotificationStore.
type SQLNotificationStore struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLNotificationStore(db *sql.DB, dialect Dialect) *SQLNotificationStore {
	return &SQLNotificationStore{DB: db, Dialect: dialect}
}

func (s *SQLNotificationStore) SaveNotification(ctx context.Context, n domain.Notification) error {
	if s.DB == nil {
		return errors.New("sql notification store: DB is nil")
	}

	query := `
	INSERT INTO notifications (
		id,
		user_id,
		title,
		message,
		category,
		related_entity_type,
		related_entity_id,
		send_email,
		send_sms,
		created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := s.DB.ExecContext(ctx, s.Dialect.rebind(query),
		n.ID,
		n.UserID,
		n.Title,
		n.Message,
		n.Category,
		n.RelatedEntityType,
		n.RelatedEntityID,
		n.SendEmail,
		n.SendSms,
		n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save notification: insert id=%s: %w", n.ID, err)
	}

	return nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *SQLNotificationStore) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	if s.DB == nil {
		return nil, errors.New("sql notification store: DB is nil")
	}

	query := `
	SELECT
		id,
		user_id,
		title,
		message,
		category,
		related_entity_type,
		related_entity_id,
		send_email,
		send_sms,
		created_at
	FROM notifications
	WHERE user_id = ?
	ORDER BY created_at DESC, id;
	`
	rows, err := s.DB.QueryContext(ctx, s.Dialect.rebind(query), userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: query notifications table: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Title,
			&n.Message,
			&n.Category,
			&n.RelatedEntityType,
			&n.RelatedEntityID,
			&n.SendEmail,
			&n.SendSms,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list notifications: scan row: %w", err)
		}
		n.CreatedAt = n.CreatedAt.UTC()
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: row iteration: %w", err)
	}

	return out, nil
}
