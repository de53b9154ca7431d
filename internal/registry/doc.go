// Package registry implements the live connection registry.
//
// The registry:
//   - Maps each user id to at most one live transport handle
//   - Replaces (and closes) the prior handle when a user reconnects
//   - Evicts stale entries when a live push fails
//   - Serializes pushes per user while never holding the map lock across
//     a transport write
package registry
