package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"photobooth/internal/config"
	"photobooth/internal/repository/sqlite"
)

// migrateCmd manages the media store schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long: `Apply or roll back the embedded schema migrations.

The server migrates on startup; this command exists for inspecting and
rolling back a database by hand.

Example: photobooth migrate up --db data/photobooth.db`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *migrate.Migrate) error {
			if err := m.Up(); err != nil {
				if errors.Is(err, migrate.ErrNoChange) {
					fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
					return nil
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Migrations applied")
			return nil
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back one migration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *migrate.Migrate) error {
			if err := m.Steps(-1); err != nil {
				if errors.Is(err, migrate.ErrNoChange) || errors.Is(err, os.ErrNotExist) {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to roll back")
					return nil
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ Rolled back one migration")
			return nil
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Version: %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

// openDB opens the database named by the --db/--driver flags, falling back
// to DB_PATH/DB_DRIVER. The schema is left untouched.
func openDB(cmd *cobra.Command) (*sqlite.DB, error) {
	cfg := config.FromEnv()
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		cfg.DBPath = path
	}
	if driver, _ := cmd.Flags().GetString("driver"); driver != "" {
		cfg.DBDriver = driver
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return sqlite.Open(sqlite.Options{
		Driver:       cfg.DBDriver,
		Path:         cfg.DBPath,
		MaxOpenConns: cfg.DBMaxOpenConns,
	})
}

// withMigrator closes the database, not the migrator: closing the migrator
// would close the shared pool a second time.
func withMigrator(cmd *cobra.Command, fn func(m *migrate.Migrate) error) error {
	db, err := openDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := db.Migrator()
	if err != nil {
		return err
	}
	return fn(m)
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)

	migrateCmd.PersistentFlags().StringP("db", "d", "", "Database file path (DB_PATH)")
	migrateCmd.PersistentFlags().String("driver", "", "SQLite driver: sqlite3 or sqlite (DB_DRIVER)")
}
