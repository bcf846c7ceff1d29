package sqlite

import (
	"path/filepath"
	"testing"
)

// setupTestDB opens a migrated in-memory database on the pure-Go driver.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(Options{Driver: DriverPure, Path: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// setupFileDB opens a migrated database file with the given driver.
func setupFileDB(t *testing.T, driver string) (*DB, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(Options{Driver: driver, Path: dbPath})
	if err != nil {
		t.Fatalf("Failed to create %s database: %v", driver, err)
	}
	t.Cleanup(func() { db.Close() })

	return db, dbPath
}
