package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"photobooth/internal/model"
)

func TestDatabase_Connection(t *testing.T) {
	for _, driver := range []string{DriverCGO, DriverPure} {
		t.Run(driver, func(t *testing.T) {
			db, dbPath := setupFileDB(t, driver)

			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				t.Error("Database file should exist")
			}
			if db.Driver() != driver {
				t.Errorf("Expected driver %s, got %s", driver, db.Driver())
			}
		})
	}
}

func TestDatabase_UnsupportedDriver(t *testing.T) {
	if _, err := Open(Options{Driver: "mysql", Path: "x"}); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestDatabase_MigrationIsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Migrate(); err != nil {
		t.Fatalf("Second migration failed: %v", err)
	}

	m, err := db.Migrator()
	if err != nil {
		t.Fatalf("Migrator failed: %v", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("Expected clean version 1, got %d (dirty=%v)", version, dirty)
	}
}

func TestDatabase_TablesExist(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	photoID, err := NewPhotoRepository(db).Insert(ctx, &model.Photo{Filename: "a.jpg", DataURL: "data:image/jpeg;base64,AAA="})
	if err != nil {
		t.Fatalf("Failed to insert into photos table: %v", err)
	}
	collageID, err := NewCollageRepository(db).Insert(ctx, &model.Collage{Title: "c", Format: "grid", DataURL: "data:image/jpeg;base64,AAA="})
	if err != nil {
		t.Fatalf("Failed to insert into collages table: %v", err)
	}

	// Independent tables, independent id sequences.
	if photoID != 1 || collageID != 1 {
		t.Errorf("Expected both ids to be 1, got photo=%d collage=%d", photoID, collageID)
	}
}

func TestTimestamp_Scan(t *testing.T) {
	want := time.Date(2025, 6, 15, 14, 30, 0, 500, time.UTC)

	tests := []struct {
		name string
		src  interface{}
	}{
		{"time", want},
		{"string", "2025-06-15 14:30:00.0000005+00:00"},
		{"bytes", []byte("2025-06-15T14:30:00.0000005Z")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts timestamp
			if err := ts.Scan(tt.src); err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if !ts.Equal(want) {
				t.Errorf("Expected %v, got %v", want, ts.Time)
			}
		})
	}

	var ts timestamp
	if err := ts.Scan(42); err == nil {
		t.Error("Expected error for integer source")
	}
}
