package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"photobooth/internal/config"
	"photobooth/internal/filter"
	"photobooth/internal/handler"
	"photobooth/internal/logger"
	"photobooth/internal/netaddr"
	"photobooth/internal/repository/sqlite"
	"photobooth/internal/route"
	"photobooth/internal/service/websocket"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	filters    *filter.Registry
	hubService *websocket.HubService
	handler    http.Handler
}

// NewApp opens the media store and wires the HTTP surface.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	if dir := filepath.Dir(cfg.DBPath); cfg.DBPath != ":memory:" && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sqlite.New(sqlite.Options{
		Driver:       cfg.DBDriver,
		Path:         cfg.DBPath,
		MaxOpenConns: cfg.DBMaxOpenConns,
	})
	if err != nil {
		return nil, err
	}

	filters := filter.NewRegistry()
	if cfg.FiltersFile != "" {
		if err := filters.LoadFile(cfg.FiltersFile); err != nil {
			db.Close()
			return nil, err
		}
	}

	hub := websocket.NewHubService(log)

	router := route.SetupRoutes(route.Deps{
		Config: cfg,
		Logger: log,
		Store: handler.MediaStore{
			Photos:   sqlite.NewPhotoRepository(db),
			Collages: sqlite.NewCollageRepository(db),
		},
		Filters: filters,
		Hub:     hub,
	})

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		filters:    filters,
		hubService: hub,
		handler:    router,
	}, nil
}

// Handler returns the fully wrapped router.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.hubService.Run(ctx)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.printBanner()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// Close releases the database.
func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) printBanner() {
	fmt.Printf("📸 Photobooth Server\n")
	fmt.Printf("📍 Local:   http://localhost:%d\n", a.config.Port)
	fmt.Printf("🌐 Network: %s\n", netaddr.BaseURL(netaddr.Detect(a.config.NetworkIP), a.config.Port))
	fmt.Printf("🗄️  Database: %s (%s)\n", a.config.DBPath, a.db.Driver())
	fmt.Printf("📁 Static:  %s\n", a.config.StaticDirectory)
	fmt.Printf("🎨 Filters: %d presets\n", len(a.filters.Presets()))
	fmt.Printf("🔌 API:     http://localhost:%d/api\n", a.config.Port)
}
