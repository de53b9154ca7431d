package identity

import (
	"context"
	"errors"
)

// ErrAuthFailure is returned when a credential cannot be resolved to a user.
// All resolver-internal failures (malformed token, bad signature, expiry) are
// wrapped into it so the connection gate treats them uniformly.
var ErrAuthFailure = errors.New("authentication failed")

// Resolver resolves a bearer credential to an authenticated user id.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (int64, error)
}

// StaticResolver resolves credentials from a fixed map. Used in tests and
// local development.
type StaticResolver struct {
	Users map[string]int64
}

// Resolve looks the credential up in the static map.
func (r *StaticResolver) Resolve(_ context.Context, credential string) (int64, error) {
	id, ok := r.Users[credential]
	if !ok {
		return 0, ErrAuthFailure
	}
	return id, nil
}
