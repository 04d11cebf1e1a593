package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	logger.Info("hidden")
	logger.Warn("Sync finished with errors", "failed", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Sync finished with errors", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.InDelta(t, 2, entry["failed"], 0)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "medfichas.log")
	logger, closer, err := New(Options{Level: "info", File: path}, io.Discard)
	require.NoError(t, err)

	logger.Info("Logged in", "user_id", "system")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=\"Logged in\"")
	assert.Contains(t, string(data), "user_id=system")
}

func TestNew_Invalid(t *testing.T) {
	_, _, err := New(Options{Format: "xml"}, io.Discard)
	assert.Error(t, err)

	_, _, err = New(Options{Level: "loud"}, io.Discard)
	assert.Error(t, err)
}
