// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/Lautaro124/curso/internal/adapters/storage"
)

// OpenDB returns a migrated, private in-memory SQLite database.
// The pool is closed when the test ends.
func OpenDB(t testing.TB) *storage.TimedDB {
	t.Helper()
	raw, dialect, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { raw.Close() })

	db := storage.NewTimedDB(raw, dialect, nil, 0)
	if err := storage.MigrateDB(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// MustExec runs a fixture statement and fails the test on error.
func MustExec(t testing.TB, db storage.SQLDB, query string, args ...any) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("fixture %q: %v", query, err)
	}
}
