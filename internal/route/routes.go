package route

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"photobooth/internal/config"
	"photobooth/internal/filter"
	"photobooth/internal/handler"
	"photobooth/internal/logger"
	"photobooth/internal/middleware"
	"photobooth/internal/model"
	wshub "photobooth/internal/service/websocket"
)

// Deps are the services the routes are wired to.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	Store   handler.MediaStore
	Filters *filter.Registry
	Hub     *wshub.HubService
}

// staticHandler serves files from the static directory. /name falls back to
// /name.html, and / to index.html.
func staticHandler(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			path = "/index"
		}

		if filepath.Ext(path) == "" && !strings.HasSuffix(path, "/") {
			htmlPath := filepath.Join(dir, filepath.FromSlash(path)+".html")
			if _, err := os.Stat(htmlPath); err == nil {
				http.ServeFile(w, r, htmlPath)
				return
			}
		}

		files.ServeHTTP(w, r)
	}
}

// SetupRoutes registers the API, share links, log endpoints and static files,
// and wraps the mux with recovery, CORS and request logging.
func SetupRoutes(deps Deps) http.Handler {
	cfg, log, store := deps.Config, deps.Logger, deps.Store
	if deps.Filters == nil {
		deps.Filters = filter.NewRegistry()
	}
	mux := http.NewServeMux()

	var events handler.EventPublisher
	if deps.Hub != nil {
		events = deps.Hub
		mux.HandleFunc("GET /api/events", handler.EventsWebsocketHandler(deps.Hub, log))
	}

	// Photos
	mux.HandleFunc("GET /api/photos", handler.ListPhotosHandler(cfg, log, store.Photos))
	mux.HandleFunc("POST /api/photos", handler.CreatePhotoHandler(cfg, log, store.Photos, events))
	mux.HandleFunc("GET /api/photos/{id}", handler.GetPhotoHandler(log, store.Photos))
	mux.HandleFunc("DELETE /api/photos/{id}", handler.DeletePhotoHandler(log, store.Photos, events))
	mux.HandleFunc("GET /api/photos/{id}/download", handler.DownloadHandler(log, store, model.KindPhoto))
	mux.HandleFunc("GET /api/photos/{id}/qr", handler.QRHandler(cfg, log, store, model.KindPhoto))

	// Collages
	mux.HandleFunc("GET /api/collages", handler.ListCollagesHandler(cfg, log, store.Collages))
	mux.HandleFunc("POST /api/collages", handler.CreateCollageHandler(cfg, log, store.Collages, events))
	mux.HandleFunc("GET /api/collages/{id}", handler.GetCollageHandler(log, store.Collages))
	mux.HandleFunc("DELETE /api/collages/{id}", handler.DeleteCollageHandler(log, store.Collages, events))
	mux.HandleFunc("GET /api/collages/{id}/download", handler.DownloadHandler(log, store, model.KindCollage))
	mux.HandleFunc("GET /api/collages/{id}/qr", handler.QRHandler(cfg, log, store, model.KindCollage))

	// Share links
	mux.HandleFunc("GET /share/{kind}/{id}", handler.ShareHandler(log, store))

	mux.HandleFunc("GET /api/config", handler.ConfigHandler(cfg, log))
	mux.HandleFunc("GET /api/health", handler.HealthHandler(log))
	mux.HandleFunc("GET /api/filters", handler.FiltersHandler(log, deps.Filters))

	// Log endpoints
	mux.HandleFunc("GET /api/logs/{level}", handler.ShowLogsHandler(log))
	mux.HandleFunc("DELETE /api/logs/{level}", handler.ClearLogsHandler(log))

	mux.HandleFunc("GET /gallery", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(cfg.StaticDirectory, "gallery.html"))
	})
	mux.HandleFunc("/", staticHandler(cfg.StaticDirectory))

	return middleware.RequestLogging(log)(middleware.CORS(middleware.Recover(log)(mux)))
}
