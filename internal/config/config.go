package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	APIBaseURL    string
	APITimeout    time.Duration
	LogLevel      string
	LogFormat     string
	StoreBackend  string // "file", "redis" or "memory"
	StorePath     string
	RedisURL      string
	TickInterval  time.Duration
	SaveInterval  time.Duration
	SubmitRetries int
	// Stub server settings.
	ServerPort string
	GinMode    string
	// AllowedOrigins controls HTTP CORS on the stub server.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8080/api/v1"),
		APITimeout:     time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 10)) * time.Second,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "pretty"),
		StoreBackend:   getEnv("STORE_BACKEND", "file"),
		StorePath:      getEnv("STORE_PATH", defaultStorePath()),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		TickInterval:   time.Duration(getEnvInt("TICK_INTERVAL_MS", 1000)) * time.Millisecond,
		SaveInterval:   time.Duration(getEnvInt("AUTOSAVE_INTERVAL_SECONDS", 60)) * time.Second,
		SubmitRetries:  getEnvInt("SUBMIT_RETRIES", 3),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

// defaultStorePath places the deadline store next to the user's config,
// falling back to the working directory when the home dir is unknown.
func defaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".examclient-state.json"
	}
	return filepath.Join(dir, "examclient", "state.json")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
