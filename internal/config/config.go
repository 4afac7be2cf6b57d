// Package config loads erdscan settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values.
type Config struct {
	// Entities document
	EntitiesFile string

	// Scanner
	TableSuffix string
	ScanWorkers int

	// Presentation
	Top int

	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		EntitiesFile: getEnv("ERDSCAN_ENTITIES_FILE", "entities.json"),

		TableSuffix: getEnv("ERDSCAN_TABLE_SUFFIX", ".Table.al"),
		ScanWorkers: getEnvInt("ERDSCAN_SCAN_WORKERS", 8),

		Top: getEnvInt("ERDSCAN_TOP", 20),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "erdscan"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "schema"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LogFile:  getEnv("ERDSCAN_LOG_FILE", "/tmp/erdscan.log"),
		LogLevel: parseLogLevel(getEnv("ERDSCAN_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns defaultVal when the variable is unset, not a number or
// not positive.
func getEnvInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
