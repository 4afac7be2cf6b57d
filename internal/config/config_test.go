package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ERDSCAN_ENTITIES_FILE", "ERDSCAN_TABLE_SUFFIX", "ERDSCAN_SCAN_WORKERS",
		"ERDSCAN_TOP", "ERDSCAN_LOG_FILE", "ERDSCAN_LOG_LEVEL", "SURREALDB_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "entities.json", cfg.EntitiesFile)
	assert.Equal(t, ".Table.al", cfg.TableSuffix)
	assert.Equal(t, 8, cfg.ScanWorkers)
	assert.Equal(t, 20, cfg.Top)
	assert.Equal(t, "ws://localhost:8000/rpc", cfg.SurrealDBURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ERDSCAN_ENTITIES_FILE", "msdyn_entities.json")
	t.Setenv("ERDSCAN_SCAN_WORKERS", "2")
	t.Setenv("ERDSCAN_TOP", "not-a-number")
	t.Setenv("ERDSCAN_LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, "msdyn_entities.json", cfg.EntitiesFile)
	assert.Equal(t, 2, cfg.ScanWorkers)
	assert.Equal(t, 20, cfg.Top, "invalid number falls back to default")
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"Warning", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.in))
		})
	}
}

func TestNewLogger(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := NewLogger(&stderr, &file, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("scored entities", "count", 3)

	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "scored entities")

	line := strings.TrimSpace(file.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "scored entities", rec["msg"])
	assert.EqualValues(t, 3, rec["count"])
}

func TestMuteStderr(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := NewLogger(&stderr, &file, slog.LevelInfo)

	restore := logger.MuteStderr()
	logger.Info("parsing table files")
	logger.Error("read failed")
	restore()
	logger.Info("scan complete")

	assert.NotContains(t, stderr.String(), "parsing table files")
	assert.Contains(t, stderr.String(), "read failed")
	assert.Contains(t, stderr.String(), "scan complete")
	assert.Contains(t, file.String(), "parsing table files")
}

func TestNewLoggerStderrOnly(t *testing.T) {
	var stderr bytes.Buffer
	logger := NewLogger(&stderr, nil, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, stderr.String(), "hidden")
	assert.Contains(t, stderr.String(), "shown")
	assert.NoError(t, logger.Close())
}

func TestSetupLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erdscan.log")
	logger := SetupLogger(path, slog.LevelInfo)
	logger.Info("written")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written"`)
}
