package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mukundajmera/AwaazTwin/internal/infra/config"
)

func TestNewWritesRotatingFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "awaaztwin.log")

	logger, closer, err := New(config.LogConfig{Level: "info", Format: "json", File: logPath})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer closer.Close() //nolint:errcheck

	logger.Info("hello", slog.String("component", "test"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("expected json record, got: %s", data)
	}
}

func TestNewLoggerStderrTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := newLogger(config.LogConfig{Level: "debug", Format: "text"}, &buf)
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("probe", "provider", "ollama")

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "provider=ollama") {
		t.Fatalf("unexpected text output: %q", out)
	}
}

func TestNewLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["msg"] != "kept" {
		t.Errorf("msg = %v", rec["msg"])
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v; want %v", in, got, want)
		}
	}
}
