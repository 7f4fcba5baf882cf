package obslog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shonendev/portfolio/internal/config"
)

func TestNewWriterJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn", "json")
	l.Info("dropped")
	l.Warn("kept", zap.String("handle", "ShonenDev"))
	require.NoError(t, l.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "ShonenDev", entry["handle"])
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "portfolio.log")
	l, closeFn, err := New(config.LogConfig{File: path, Level: "debug"})
	require.NoError(t, err)
	l.Debug("hello")
	require.NoError(t, closeFn())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "DEBUG | ")
	require.Contains(t, string(b), "hello")
}

func TestNewWithoutFileIsNop(t *testing.T) {
	l, closeFn, err := New(config.LogConfig{})
	require.NoError(t, err)
	l.Error("nowhere")
	require.NoError(t, closeFn())
}
