// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server settings.
type Config struct {
	ListenAddr string

	// DBPath is the SQLite database file path.
	DBPath string

	// BlobDir is the root directory for offline cache blobs.
	BlobDir string

	// JWTSecret signs session tokens. Required, at least 32 characters.
	JWTSecret string

	// TokenTTL is how long session tokens remain valid.
	TokenTTL time.Duration

	// DownloadTimeout bounds each offline download request; a timeout
	// counts as a failed download, never a crash.
	DownloadTimeout time.Duration

	// TileURLTemplate is the XYZ tile server template with %d/%d/%d
	// placeholders for zoom, x, y.
	TileURLTemplate string
}

// Load reads configuration from the environment, consulting a .env
// file if one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found; using system environment")
	}

	cfg := &Config{
		ListenAddr:      getenvDefault("TRIPBUDDY_LISTEN_ADDR", ":8080"),
		DBPath:          getenvDefault("TRIPBUDDY_DB_PATH", "./data/tripbuddy.db"),
		BlobDir:         getenvDefault("TRIPBUDDY_BLOB_DIR", "./data/blobs"),
		JWTSecret:       os.Getenv("TRIPBUDDY_JWT_SECRET"),
		TileURLTemplate: getenvDefault("TRIPBUDDY_TILE_URL", "https://tile.openstreetmap.org/%d/%d/%d.png"),
	}

	var err error
	cfg.TokenTTL, err = getenvDuration("TRIPBUDDY_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.DownloadTimeout, err = getenvDuration("TRIPBUDDY_DOWNLOAD_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("TRIPBUDDY_JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("TRIPBUDDY_JWT_SECRET must be at least 32 characters long (got %d)", len(cfg.JWTSecret))
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, v, err)
	}
	return d, nil
}
