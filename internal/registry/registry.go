package registry

import (
	"log/slog"
	"sync"
)

// entry is one user's slot in the registry.
type entry struct {
	ch Channel

	// sendMu serializes pushes to this user so two rapid notifications
	// cannot interleave on the socket.
	sendMu sync.Mutex
}

// Registry tracks the live connection of each user and guarantees at most one
// entry per user at any instant.
//
// The map lock is held only for map mutations, never across a transport
// write, so a slow client cannot stall deliveries to other users.
type Registry struct {
	logger *slog.Logger

	mu      sync.Mutex
	entries map[int64]*entry
}

// New creates an empty registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:  logger,
		entries: make(map[int64]*entry),
	}
}

// Connect admits a new live connection for the user. If the user already has
// an entry, its handle is closed and replaced; the newest connection wins.
// Admission is assumed pre-authorized by the caller.
func (r *Registry) Connect(userID int64, ch Channel) {
	e := &entry{ch: ch}

	r.mu.Lock()
	old := r.entries[userID]
	r.entries[userID] = e
	r.mu.Unlock()

	if old != nil {
		// Tolerate a handle that is already closed.
		_ = old.ch.Close()
		r.logger.Debug("superseded prior connection", "user_id", userID)
	}

	r.logger.Debug("connection registered", "user_id", userID)
}

// Disconnect removes the user's entry and closes its handle. Calling it for a
// user with no entry is a no-op; it is safe to call repeatedly.
func (r *Registry) Disconnect(userID int64) {
	r.mu.Lock()
	e := r.entries[userID]
	delete(r.entries, userID)
	r.mu.Unlock()

	if e != nil {
		_ = e.ch.Close()
		r.logger.Debug("connection removed", "user_id", userID)
	}
}

// DisconnectChannel removes the user's entry only if it still references the
// given channel. A connection lifecycle that was superseded by a newer
// connect uses this so it cannot evict its successor's entry.
func (r *Registry) DisconnectChannel(userID int64, ch Channel) {
	r.mu.Lock()
	e := r.entries[userID]
	if e != nil && e.ch == ch {
		delete(r.entries, userID)
	} else {
		e = nil
	}
	r.mu.Unlock()

	if e != nil {
		_ = e.ch.Close()
		r.logger.Debug("connection removed", "user_id", userID)
	}
}

// SendToUser pushes a payload to the user's live connection, if any. On a
// write failure the stale entry is evicted before returning TransportFailed.
func (r *Registry) SendToUser(userID int64, payload []byte) DeliveryResult {
	r.mu.Lock()
	e := r.entries[userID]
	r.mu.Unlock()

	if e == nil {
		return NotConnected
	}

	e.sendMu.Lock()
	err := e.ch.Send(payload)
	e.sendMu.Unlock()

	if err != nil {
		r.evict(userID, e)
		r.logger.Warn("live push failed, connection evicted",
			"user_id", userID,
			"error", err,
		)
		return TransportFailed
	}

	return Delivered
}

// BroadcastToUsers pushes a payload to each user independently; one user's
// failure never aborts delivery to the others.
func (r *Registry) BroadcastToUsers(userIDs []int64, payload []byte) map[int64]DeliveryResult {
	results := make(map[int64]DeliveryResult, len(userIDs))
	for _, id := range userIDs {
		results[id] = r.SendToUser(id, payload)
	}
	return results
}

// Connected reports whether the user currently has a live entry.
func (r *Registry) Connected(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[userID]
	return ok
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Shutdown closes every live connection and empties the registry.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[int64]*entry)
	r.mu.Unlock()

	for userID, e := range entries {
		_ = e.ch.Close()
		r.logger.Debug("connection closed on shutdown", "user_id", userID)
	}
}

// evict removes the entry only if it is still the user's current one, so a
// connection admitted concurrently with a failed send is left untouched.
func (r *Registry) evict(userID int64, e *entry) {
	r.mu.Lock()
	if r.entries[userID] == e {
		delete(r.entries, userID)
	}
	r.mu.Unlock()

	_ = e.ch.Close()
}
