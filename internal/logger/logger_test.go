package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp_server.log")
	require.NoError(t, os.WriteFile(path, []byte("previous line\n"), 0o600))

	log, closer := New("info", path)
	log.Debug("hidden message")
	log.Info("using encoding", "encoding", "utf-8")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "previous line")
	require.Contains(t, string(data), "using encoding")
	require.NotContains(t, string(data), "hidden message")
}

func TestNew_FallsBackWhenFileUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "mcp_server.log")

	log, closer := New("debug", path)
	require.NotNil(t, log)
	require.NoError(t, closer.Close())
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, slog.LevelWarn)
	log.Info("skip")
	log.Warn("primary provider failed")
	require.NotContains(t, buf.String(), "skip")
	require.Contains(t, buf.String(), "primary provider failed")
}
