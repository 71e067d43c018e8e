package config

import (
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string        // MCQ API root, e.g. "https://api.gulfcertify.example"
	StoragePath string        // device-local SQLite file
	HTTPTimeout time.Duration // per request to the MCQ API

	MockDuration time.Duration
	LogLevel     slog.Level
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		APIBaseURL:   mustGetenv("API_BASE_URL"),
		StoragePath:  getenvDefault("STORAGE_PATH", "gulfcertify.db"),
		HTTPTimeout:  getDurationDefault("HTTP_TIMEOUT", 30*time.Second),
		MockDuration: getDurationDefault("MOCK_DURATION", 4*time.Hour),
		LogLevel:     getLevelDefault("LOG_LEVEL", slog.LevelInfo),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	if d <= 0 {
		log.Fatalf("config: %s=%q must be a positive duration", k, v)
	}
	return d
}

func getLevelDefault(k string, fallback slog.Level) slog.Level {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
		log.Fatalf("config: %s=%q is not a valid log level: %v", k, v, err)
	}
	return level
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
