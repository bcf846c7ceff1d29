package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"photobooth/internal/dto"
	"photobooth/internal/logger"
)

func TestConfig_NetworkIPOverride(t *testing.T) {
	env := setupTestEnv(t)
	env.cfg.NetworkIP = "10.181.50.155"

	w := env.do(t, http.MethodGet, "/api/config", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var cfg dto.ServerConfig
	decodeJSON(t, w, &cfg)
	if cfg.BaseURL != "http://10.181.50.155:3000" {
		t.Errorf("Expected override base URL, got %q", cfg.BaseURL)
	}
}

func TestConfig_Detected(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/config", nil)
	var cfg dto.ServerConfig
	decodeJSON(t, w, &cfg)
	if !strings.HasPrefix(cfg.BaseURL, "http://") || !strings.HasSuffix(cfg.BaseURL, ":3000") {
		t.Errorf("Unexpected base URL %q", cfg.BaseURL)
	}
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/health", nil)
	var health dto.Health
	decodeJSON(t, w, &health)
	if health.Status != "Server is running" || health.Timestamp.IsZero() {
		t.Errorf("Unexpected health payload %+v", health)
	}
}

func TestFilters(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/filters", nil)
	var presets []dto.FilterPreset
	decodeJSON(t, w, &presets)
	if len(presets) == 0 || presets[0].Key != "none" {
		t.Fatalf("Expected presets starting with none, got %+v", presets)
	}

	found := false
	for _, p := range presets {
		if p.Key == "sepia" && p.CSS == "sepia(100%)" {
			found = true
		}
	}
	if !found {
		t.Error("Expected sepia preset")
	}
}

func TestLogs_ShowAndClear(t *testing.T) {
	dir := t.TempDir()
	log, err := logger.New(dir)
	if err != nil {
		t.Fatalf("logger.New failed: %v", err)
	}
	defer log.Close()
	log.Warning("disk almost full")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/logs/{level}", ShowLogsHandler(log))
	mux.HandleFunc("DELETE /api/logs/{level}", ClearLogsHandler(log))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logs/warning", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "disk almost full") {
		t.Fatalf("Expected warning log contents, got %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/logs/debug", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown level, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/logs/warning", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", w.Code)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "warning.log"))
	if len(data) != 0 {
		t.Errorf("Expected truncated warning.log, got %q", data)
	}
}
