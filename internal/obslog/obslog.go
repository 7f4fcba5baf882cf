// Package obslog builds the zap logger shared by the CLI, the API client and
// the TUI. Output goes to a file; stdout belongs to the terminal UI.
package obslog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shonendev/portfolio/internal/config"
)

// New returns a logger for cfg and a close func for the underlying file.
// An empty cfg.File yields a nop logger.
func New(cfg config.LogConfig) (*zap.Logger, func() error, error) {
	path := strings.TrimSpace(cfg.File)
	if path == "" {
		return zap.NewNop(), func() error { return nil }, nil
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := NewWriter(f, cfg.Level, cfg.Format)
	return logger, func() error {
		_ = logger.Sync()
		return f.Close()
	}, nil
}

// NewWriter builds a logger writing to w.
func NewWriter(w io.Writer, level, format string) *zap.Logger {
	var enc zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		enc = zapcore.NewJSONEncoder(jsonEncoderConfig())
	default:
		enc = zapcore.NewConsoleEncoder(consoleEncoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), parseLevel(level))
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}
