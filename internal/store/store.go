package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a notification does not exist or does not
// belong to the requesting user.
var ErrNotFound = errors.New("notification not found")

// Notification is a durable record of one domain event addressed to a user.
//
// IsRead starts false and is set true only by an explicit read
// acknowledgement from the owning user; it never reverts.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	LinkTo    string    `json:"link_to,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the durable notification record. Persistence here is the source of
// truth; live push is best-effort on top of it.
type Store interface {
	// Create persists a new unread notification.
	Create(ctx context.Context, userID int64, message, linkTo string) (Notification, error)

	// ListForUser returns the user's notifications, newest first.
	ListForUser(ctx context.Context, userID int64, skip, limit int) ([]Notification, error)

	// MarkRead marks one notification read, scoped to the owning user.
	// Returns ErrNotFound if the id does not exist or belongs to another user.
	MarkRead(ctx context.Context, id uuid.UUID, userID int64) (Notification, error)

	// MarkAllRead marks every unread notification of the user read and
	// returns how many rows changed.
	MarkAllRead(ctx context.Context, userID int64) (int64, error)

	// CountUnread returns the number of unread notifications for the user.
	CountUnread(ctx context.Context, userID int64) (int64, error)
}
