package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	DBPath    string
	LogLevel  slog.Level
	LogFormat string

	// ChromeProfileDir points at a Chrome profile directory (the one
	// holding the History database and the Bookmarks file). Empty
	// disables history import and bookmark analysis.
	ChromeProfileDir string

	// DevToolsURL is the Chrome remote-debugging endpoint. Empty
	// disables live tab inspection.
	DevToolsURL string

	// CategoriesPath optionally overrides the built-in category table.
	CategoriesPath string

	ZombieThreshold time.Duration
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for go.mod
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:          getEnv("API_PORT", "8090"),
		DBPath:           getEnv("DB_PATH", "./data/tabrewind.db"),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "text")),
		ChromeProfileDir: getEnv("CHROME_PROFILE_DIR", ""),
		DevToolsURL:      getEnv("DEVTOOLS_URL", ""),
		CategoriesPath:   getEnv("CATEGORIES_PATH", ""),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	thresholdStr := getEnv("ZOMBIE_THRESHOLD_MIN", "60")
	thresholdMin, err := strconv.Atoi(thresholdStr)
	if err != nil {
		return nil, fmt.Errorf("ZOMBIE_THRESHOLD_MIN must be a valid integer: %w", err)
	}
	if thresholdMin <= 0 {
		return nil, fmt.Errorf("ZOMBIE_THRESHOLD_MIN must be greater than 0")
	}
	cfg.ZombieThreshold = time.Duration(thresholdMin) * time.Minute

	// A configured profile directory must exist; silently tracking
	// nothing would be worse than failing at startup.
	if cfg.ChromeProfileDir != "" {
		if _, err := os.Stat(cfg.ChromeProfileDir); err != nil {
			return nil, fmt.Errorf("CHROME_PROFILE_DIR is not accessible: %w", err)
		}
	}

	// Create ./data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// parseLogLevel maps a level name to its slog level.
func parseLogLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", name)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
