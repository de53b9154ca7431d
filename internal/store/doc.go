// Package store implements the durable notification record, backed by
// PostgreSQL in production and by an in-memory variant for tests.
package store
