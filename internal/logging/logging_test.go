package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("skipped")
	logger.Warn("photo list unreadable", "error", "disk full")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "photo list unreadable", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "disk full", entry["error"])
}

func TestOpenFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "placebook.log")

	logger, f, err := OpenFile(path, "info")
	require.NoError(t, err)
	logger.Info("session started")
	require.NoError(t, f.Close())

	logger, f, err = OpenFile(path, "info")
	require.NoError(t, err)
	logger.Info("place saved")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
	assert.Contains(t, string(data), "session started")
	assert.Contains(t, string(data), "place saved")
}
