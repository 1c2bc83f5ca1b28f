// Package config loads runtime configuration from the environment.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds everything the process needs from its environment.
type Config struct {
	DBPath       string
	Addr         string
	GeminiAPIKey string
	VideoAPIKey  string
	VideoAPIURL  string
	LogLevel     string
}

// Load reads a .env file if present, then the environment, applying
// defaults for anything unset.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DBPath:       getenv("FOCUSTIME_DB", defaultDBPath()),
		Addr:         getenv("FOCUSTIME_ADDR", ":8484"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		VideoAPIKey:  os.Getenv("YOUTUBE_API_KEY"),
		VideoAPIURL:  os.Getenv("FOCUSTIME_VIDEO_API_URL"),
		LogLevel:     getenv("FOCUSTIME_LOG", "info"),
	}
}

// NewLogger builds the process logger. Unknown levels fall back to info.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "focustime.db"
	}
	return filepath.Join(home, ".focustime", "focustime.db")
}
