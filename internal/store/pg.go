package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists notifications in PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a store backed by the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Create persists a new unread notification.
func (s *PGStore) Create(ctx context.Context, userID int64, message, linkTo string) (Notification, error) {
	n := Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Message: message,
		LinkTo:  linkTo,
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO notifications (id, user_id, message, link_to)
		 VALUES ($1, $2, $3, $4)
		 RETURNING is_read, created_at`,
		n.ID, n.UserID, n.Message, n.LinkTo,
	).Scan(&n.IsRead, &n.CreatedAt)
	if err != nil {
		return Notification{}, fmt.Errorf("insert notification: %w", err)
	}

	return n, nil
}

// ListForUser returns the user's notifications, newest first.
func (s *PGStore) ListForUser(ctx context.Context, userID int64, skip, limit int) ([]Notification, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, message, link_to, is_read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 OFFSET $2 LIMIT $3`,
		userID, skip, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.LinkTo, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead marks one notification read, scoped to the owning user.
func (s *PGStore) MarkRead(ctx context.Context, id uuid.UUID, userID int64) (Notification, error) {
	var n Notification
	err := s.pool.QueryRow(ctx,
		`UPDATE notifications
		 SET is_read = TRUE
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, message, link_to, is_read, created_at`,
		id, userID,
	).Scan(&n.ID, &n.UserID, &n.Message, &n.LinkTo, &n.IsRead, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Notification{}, ErrNotFound
	}
	if err != nil {
		return Notification{}, fmt.Errorf("mark notification read: %w", err)
	}

	return n, nil
}

// MarkAllRead marks every unread notification of the user read.
func (s *PGStore) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountUnread returns the number of unread notifications for the user.
func (s *PGStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT is_read`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}
