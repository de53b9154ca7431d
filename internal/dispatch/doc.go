// Package dispatch implements the delivery dispatcher: persist a notification
// first, then push it to the user's live connection on a best-effort basis.
package dispatch
