package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps notifications in process memory. Used in tests and for
// running the service without a database.
type MemoryStore struct {
	mu            sync.Mutex
	notifications []Notification
	lastCreated   time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Create persists a new unread notification.
func (s *MemoryStore) Create(_ context.Context, userID int64, message, linkTo string) (Notification, error) {
	s.mu.Lock()
	// Monotonic timestamps keep newest-first ordering stable for rapid creates.
	now := time.Now().UTC()
	if !now.After(s.lastCreated) {
		now = s.lastCreated.Add(time.Nanosecond)
	}
	s.lastCreated = now

	n := Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		LinkTo:    linkTo,
		CreatedAt: now,
	}
	s.notifications = append(s.notifications, n)
	s.mu.Unlock()

	return n, nil
}

// ListForUser returns the user's notifications, newest first.
func (s *MemoryStore) ListForUser(_ context.Context, userID int64, skip, limit int) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			matched = append(matched, n)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if skip >= len(matched) {
		return []Notification{}, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// MarkRead marks one notification read, scoped to the owning user.
func (s *MemoryStore) MarkRead(_ context.Context, id uuid.UUID, userID int64) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].IsRead = true
			return s.notifications[i], nil
		}
	}
	return Notification{}, ErrNotFound
}

// MarkAllRead marks every unread notification of the user read.
func (s *MemoryStore) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int64
	for i := range s.notifications {
		if s.notifications[i].UserID == userID && !s.notifications[i].IsRead {
			s.notifications[i].IsRead = true
			changed++
		}
	}
	return changed, nil
}

// CountUnread returns the number of unread notifications for the user.
func (s *MemoryStore) CountUnread(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
