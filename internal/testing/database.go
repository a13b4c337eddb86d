// Package testing holds helpers shared by package tests.
package testing

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// CreateTestDB returns an empty in-memory catalog database with foreign keys
// on. It is closed when t ends.
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err, "open in-memory catalog")
	t.Cleanup(func() { db.Close() })

	// :memory: is per connection; a second pooled connection would see no tables
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err, "enable foreign keys")
	return db
}
