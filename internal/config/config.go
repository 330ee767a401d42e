package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// DatabaseURL is the remote Postgres DSN. Empty means the server falls
	// back to a URL saved in settings, or to local mode.
	DatabaseURL string

	// DBPath is the SQLite file backing local mode and settings.
	DBPath string

	// Addr is the HTTP listen address.
	Addr string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// InsightsEnabled reports whether a Gemini API key is present.
	InsightsEnabled bool
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBPath:          getEnv("DB_PATH", "./data/kitchen.db"),
		Addr:            ":" + getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		InsightsEnabled: os.Getenv("GEMINI_API_KEY") != "",
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
