// Package database manages the PostgreSQL connection pool backing the
// notification store.
package database
