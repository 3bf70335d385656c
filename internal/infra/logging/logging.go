// Package logging builds the process slog.Logger from config.LogConfig.
// Records go to stderr, or to a size-rotated file when a path is configured.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mukundajmera/AwaazTwin/internal/infra/config"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// New returns a logger for cfg and installs it as the slog default.
// The returned closer flushes the rotating file; it is a no-op for stderr.
// If the log directory cannot be created the logger falls back to stderr and the error is returned.
func New(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg config.LogConfig, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	path := strings.TrimSpace(cfg.File)
	if path == "" {
		logger := slog.New(newHandler(cfg.Format, stderr, opts))
		slog.SetDefault(logger)
		return logger, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		logger := slog.New(newHandler(cfg.Format, stderr, opts))
		slog.SetDefault(logger)
		return logger, nopCloser{}, err
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}
	logger := slog.New(newHandler(cfg.Format, writer, opts))
	slog.SetDefault(logger)
	return logger, writer, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text":
		return slog.NewTextHandler(out, opts)
	default:
		return slog.NewJSONHandler(out, opts)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
