package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	DBDriver         string // "sqlite3" (mattn, cgo) or "sqlite" (modernc, pure Go)
	DBPath           string
	DBMaxOpenConns   int
	NetworkIP        string // Explicit LAN address override for share links
	StaticDirectory  string
	LogDirectory     string
	FiltersFile      string
	MaxBodyBytes     int64
	PhotoListLimit   int
	CollageListLimit int

	// Booth client settings
	ServerURL        string
	CameraDevice     string
	CountdownSeconds int
	ShotPauseMillis  int
	JPEGQuality      int
}

// Load reads an optional .env file and then builds the configuration from the environment.
func Load() *Config {
	LoadEnvFile(".env")
	return FromEnv()
}

// LoadEnvFile loads variables from the given dotenv file without overriding
// variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() *Config {
	return &Config{
		Port:             getEnvAsInt("PORT", 3000),
		DBDriver:         getEnv("DB_DRIVER", "sqlite3"),
		DBPath:           getEnv("DB_PATH", filepath.Join(".", "data", "photobooth.db")),
		DBMaxOpenConns:   getEnvAsInt("DB_MAX_OPEN_CONNS", 1),
		NetworkIP:        getEnv("NETWORK_IP", ""),
		StaticDirectory:  getEnv("STATIC_DIR", filepath.Join(".", "static")),
		LogDirectory:     getEnv("LOG_DIR", filepath.Join(".", "logs")),
		FiltersFile:      getEnv("FILTERS_FILE", ""),
		MaxBodyBytes:     getEnvAsInt64("MAX_BODY_MB", 50) << 20, // JSON bodies carry whole images
		PhotoListLimit:   getEnvAsInt("PHOTO_LIST_LIMIT", 100),
		CollageListLimit: getEnvAsInt("COLLAGE_LIST_LIMIT", 50),
		ServerURL:        getEnv("SERVER_URL", "http://localhost:3000"),
		CameraDevice:     getEnv("CAMERA_DEVICE", "0"),
		CountdownSeconds: getEnvAsInt("COUNTDOWN_SECONDS", 3),
		ShotPauseMillis:  getEnvAsInt("SHOT_PAUSE_MS", 1000),
		JPEGQuality:      getEnvAsInt("JPEG_QUALITY", 92),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
