package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestSetup_Formats(t *testing.T) {
	for _, format := range []string{"text", "json", ""} {
		t.Run(format, func(t *testing.T) {
			require.NoError(t, Setup(Config{Level: "debug", Format: format, Output: "stderr"}))
		})
	}
}

func TestSetup_FileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "repoctl.log")

	require.NoError(t, Setup(Config{Level: "info", Format: "json", Output: logFile}))
	t.Cleanup(func() { _ = Close() })

	Default().Info("written to file", "key", "value")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written to file"`)
}

func TestSetup_InvalidLevel(t *testing.T) {
	err := Setup(Config{Level: "verbose"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestSetup_InvalidFormat(t *testing.T) {
	err := Setup(Config{Level: "info", Format: "xml", Output: "stderr"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestSetup_InvalidFilePath(t *testing.T) {
	err := Setup(Config{Output: "/dev/null/impossible/path/log.txt"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"invalid", slog.LevelWarn, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := parseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}

func TestWithComponent(t *testing.T) {
	assert.NotNil(t, WithComponent("nexus"))
}
