package config

import (
	"os"
	"strconv"
)

// Config holds all configuration shared by the builder and the dashboards
type Config struct {
	// Cache artifact
	DatabasePath string

	// Source catalog
	SourcesPath string

	// Ingestion
	ChunkSize    int
	ForceRebuild bool

	// Optional Postgres read side for the bus dashboard. When set, the
	// dashboard reads the monthly summary from Postgres instead of SQLite.
	DatabaseURL string

	// Allowed CORS origin for the dashboard frontends
	CORSOrigin string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		DatabasePath: getEnv("SQLITE_DATABASE", "./data/summaries.db"),
		SourcesPath:  getEnv("SOURCES_FILE", ""),
		ChunkSize:    getEnvInt("CHUNK_SIZE", 500000),
		ForceRebuild: getEnvBool("FORCE_REBUILD", false),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		CORSOrigin:   getEnv("CORS_ORIGIN", "http://localhost:5173"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
