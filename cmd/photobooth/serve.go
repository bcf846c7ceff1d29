package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"photobooth/internal/app"
	"photobooth/internal/config"
	"photobooth/internal/logger"
)

// serveCmd runs the HTTP API and static file server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the photobooth server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromEnv()
		if err := applyServerFlags(cmd, cfg); err != nil {
			return err
		}

		log, err := logger.New(cfg.LogDirectory)
		if err != nil {
			return err
		}
		defer log.Close()

		a, err := app.NewApp(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to start: %w", err)
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return a.Run(ctx)
	},
}

// applyServerFlags overrides config values with flags the user actually set.
func applyServerFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return err
		}
	}
	if flags.Changed("db") {
		if cfg.DBPath, err = flags.GetString("db"); err != nil {
			return err
		}
	}
	if flags.Changed("driver") {
		if cfg.DBDriver, err = flags.GetString("driver"); err != nil {
			return err
		}
	}
	if flags.Changed("static") {
		if cfg.StaticDirectory, err = flags.GetString("static"); err != nil {
			return err
		}
	}
	if flags.Changed("filters") {
		if cfg.FiltersFile, err = flags.GetString("filters"); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 3000, "Port to listen on (PORT)")
	serveCmd.Flags().StringP("db", "d", "", "Database file path (DB_PATH)")
	serveCmd.Flags().String("driver", "", "SQLite driver: sqlite3 or sqlite (DB_DRIVER)")
	serveCmd.Flags().String("static", "", "Static assets directory (STATIC_DIR)")
	serveCmd.Flags().String("filters", "", "YAML file with extra filter presets (FILTERS_FILE)")
}
