package registry

// Channel is an opaque handle to one user's live transport. The registry
// exclusively owns the handle while its entry exists; Close must be safe to
// call more than once.
type Channel interface {
	// Send writes a payload to the client. Implementations must bound the
	// write with a deadline so a slow client cannot block the caller forever.
	Send(payload []byte) error

	// Close tears the transport down, unblocking any in-flight Send.
	Close() error
}

// DeliveryResult is the outcome of a live-push attempt.
type DeliveryResult int

const (
	// Delivered means the payload was written to the user's live connection.
	Delivered DeliveryResult = iota

	// NotConnected means the user has no live connection. Not an error; the
	// user will see the notification on the next history pull.
	NotConnected

	// TransportFailed means the write to a previously-valid handle failed.
	// The stale entry has been evicted; callers must not retry the handle.
	TransportFailed
)

// String returns the result name for logging.
func (r DeliveryResult) String() string {
	switch r {
	case Delivered:
		return "delivered"
	case NotConnected:
		return "not_connected"
	case TransportFailed:
		return "transport_failed"
	default:
		return "unknown"
	}
}
