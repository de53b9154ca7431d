package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/franco18min/tecnomundo-notify/internal/registry"
	"github.com/franco18min/tecnomundo-notify/internal/store"
)

// Pusher is the live-delivery side of the dispatcher. Satisfied by
// *registry.Registry.
type Pusher interface {
	SendToUser(userID int64, payload []byte) registry.DeliveryResult
}

// Dispatcher is the single entry point producers use to notify a user of a
// domain event. It persists first and pushes second: a notification is never
// pushed live without a durable record behind it.
type Dispatcher struct {
	store  store.Store
	pusher Pusher
	logger *slog.Logger
}

// New creates a dispatcher over the given store and live-push registry.
func New(st store.Store, pusher Pusher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		store:  st,
		pusher: pusher,
		logger: logger,
	}
}

// Notify persists a notification for the user and attempts one live push.
//
// If persistence fails the whole operation fails and no push is attempted.
// The push outcome never changes the returned notification: NotConnected and
// TransportFailed still return the persisted record, with the delivery result
// as a side channel.
func (d *Dispatcher) Notify(ctx context.Context, userID int64, message, linkTo string) (store.Notification, registry.DeliveryResult, error) {
	n, err := d.store.Create(ctx, userID, message, linkTo)
	if err != nil {
		return store.Notification{}, registry.NotConnected, fmt.Errorf("persist notification: %w", err)
	}

	payload, _ := json.Marshal(n)
	result := d.pusher.SendToUser(userID, payload)

	d.logger.Debug("notification dispatched",
		"notification_id", n.ID,
		"user_id", userID,
		"delivery", result,
	)

	return n, result, nil
}

// NotifyUsers fans one domain event out to a set of users, each with its own
// persisted notification and push attempt. One user's store or transport
// failure never aborts delivery to the others; store failures are joined into
// the returned error.
func (d *Dispatcher) NotifyUsers(ctx context.Context, userIDs []int64, message, linkTo string) (map[int64]registry.DeliveryResult, error) {
	results := make(map[int64]registry.DeliveryResult, len(userIDs))

	var errs []error
	for _, id := range userIDs {
		_, result, err := d.Notify(ctx, id, message, linkTo)
		if err != nil {
			errs = append(errs, fmt.Errorf("user %d: %w", id, err))
			continue
		}
		results[id] = result
	}

	return results, errors.Join(errs...)
}
