package handler

import (
	"net/http"
	"time"

	"photobooth/internal/config"
	"photobooth/internal/dto"
	"photobooth/internal/filter"
	"photobooth/internal/logger"
	"photobooth/internal/netaddr"
)

// NetworkBaseURL is the base URL other devices on the LAN should use.
func NetworkBaseURL(cfg *config.Config) string {
	return netaddr.BaseURL(netaddr.Detect(cfg.NetworkIP), cfg.Port)
}

func ConfigHandler(cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, dto.ServerConfig{BaseURL: NetworkBaseURL(cfg)})
	}
}

func HealthHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, dto.Health{Status: "Server is running", Timestamp: time.Now().UTC()})
	}
}

// FiltersHandler lists the filter presets the booth UI offers.
func FiltersHandler(logger *logger.Logger, filters *filter.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		presets := filters.Presets()
		out := make([]dto.FilterPreset, 0, len(presets))
		for _, p := range presets {
			out = append(out, dto.FilterPreset{Key: p.Key, CSS: p.CSS})
		}
		writeJSON(w, logger, http.StatusOK, out)
	}
}
