package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	migratesqlite3 "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	// DriverCGO is github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"
	// DriverPure is modernc.org/sqlite.
	DriverPure = "sqlite"
)

// Options controls how the database is opened.
type Options struct {
	Driver       string
	Path         string
	MaxOpenConns int
}

// DB wraps the SQLite connection pool shared by the repositories.
type DB struct {
	conn   *sql.DB
	driver string
}

// New opens the database and applies all pending migrations.
func New(opts Options) (*DB, error) {
	db, err := Open(opts)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Open opens the database without touching the schema.
func Open(opts Options) (*DB, error) {
	if opts.Driver == "" {
		opts.Driver = DriverCGO
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 1
	}

	dsn, err := dataSourceName(opts.Driver, opts.Path)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxOpenConns)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{conn: conn, driver: opts.Driver}, nil
}

func dataSourceName(driver, path string) (string, error) {
	inMemory := path == ":memory:" || strings.Contains(path, "mode=memory")
	switch driver {
	case DriverCGO:
		if inMemory {
			return path, nil
		}
		return path + "?_journal_mode=WAL&_busy_timeout=5000", nil
	case DriverPure:
		if inMemory {
			return path, nil
		}
		return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// Migrator returns a golang-migrate instance bound to this database.
// Closing the returned Migrate would close the pool, so callers must not.
func (db *DB) Migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	var driver database.Driver
	switch db.driver {
	case DriverPure:
		driver, err = migratesqlite.WithInstance(db.conn, &migratesqlite.Config{})
	default:
		driver, err = migratesqlite3.WithInstance(db.conn, &migratesqlite3.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", src, db.driver, driver)
}

// Migrate applies all pending up migrations.
func (db *DB) Migrate() error {
	m, err := db.Migrator()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection for use by repositories.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the database/sql driver name in use.
func (db *DB) Driver() string {
	return db.driver
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// timestamp scans DATETIME columns regardless of whether the driver hands
// back time.Time or the stored text.
type timestamp struct {
	time.Time
}

func (t *timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("cannot scan %T into timestamp", src)
}

func (t *timestamp) parse(s string) error {
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
