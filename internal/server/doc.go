// Package server hosts the HTTP surface of notifyd.
//
// It exposes:
//   - GET /ws, the authenticated live-push connection
//   - the notification history REST API (list, unread count, read receipts)
//   - POST /api/v1/internal/notify, the producer entry point
package server
