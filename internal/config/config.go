// Package config loads settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrDataFileMissing is returned when the configured dataset does not exist.
var ErrDataFileMissing = errors.New("dataset file not found")

// Config holds the application configuration.
type Config struct {
	DataPath       string
	DatabasePath   string
	ExportDir      string
	ExportFormat   string
	WatchData      bool
	NotifyOnReload bool
	MetricsAddr    string
	LogLevel       string
	LogFile        string
	ReloadDebounce time.Duration
}

// Default values
const (
	defaultDataPath       = "merged_bike_data_cleaned.csv"
	defaultExportDir      = "exports"
	defaultExportFormat   = "json"
	defaultLogLevel       = "info"
	defaultReloadDebounce = 200 * time.Millisecond
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DataPath:       getEnvString("BIKE_DATA_PATH", defaultDataPath),
		DatabasePath:   getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		ExportDir:      getEnvString("EXPORT_DIR", defaultExportDir),
		ExportFormat:   getEnvString("EXPORT_FORMAT", defaultExportFormat),
		WatchData:      getEnvBool("WATCH_DATA", true),
		NotifyOnReload: getEnvBool("NOTIFY_ON_RELOAD", false),
		MetricsAddr:    getEnvString("METRICS_ADDR", ""),
		LogLevel:       getEnvString("LOG_LEVEL", defaultLogLevel),
		LogFile:        getEnvString("LOG_FILE", ""),
		ReloadDebounce: getEnvDuration("RELOAD_DEBOUNCE", defaultReloadDebounce),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}
	if err := ensureDir(cfg.ExportDir); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the dataset exists and is a regular file.
func (c *Config) Validate() error {
	info, err := os.Stat(c.DataPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s (set BIKE_DATA_PATH)", ErrDataFileMissing, c.DataPath)
		}
		return fmt.Errorf("failed to stat dataset: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("dataset path %s is a directory", c.DataPath)
	}
	if c.ReloadDebounce <= 0 {
		c.ReloadDebounce = defaultReloadDebounce
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "bikeshare-tui", ".env"))
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dashboard.db"
	}
	return filepath.Join(home, ".config", "bikeshare-tui", "dashboard.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool accepts 1/0, true/false, yes/no and on/off.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch value {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Bare numbers are milliseconds
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
