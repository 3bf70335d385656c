package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_Version_PrintsVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--version"}, &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "awaaztwin version") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRun_VersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if code := run([]string{"version"}, &out); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "awaaztwin version") {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

func TestRun_Help_PrintsUsage(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--help"}, &out)

	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	for _, want := range []string{"Usage:", "serve", "mcp", "migrate"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in help output, got %q", want, out.String())
		}
	}
}

func TestRun_InvalidFlag_Returns2(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := run([]string{"--unknown-flag"}, &out)

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestRun_UnknownCommand_Returns2(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if code := run([]string{"frobnicate"}, &out); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(out.String(), `unknown command "frobnicate"`) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRun_MigrateUpThenStatus(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "awaaztwin.db")
	t.Setenv("AWAAZTWIN_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("AWAAZTWIN_DB_PATH", dbPath)

	var out bytes.Buffer
	if code := run([]string{"migrate", "up"}, &out); code != 0 {
		t.Fatalf("migrate up: exit %d, output %q", code, out.String())
	}
	if !strings.Contains(out.String(), "pending: none") {
		t.Fatalf("expected no pending migrations after up, got %q", out.String())
	}

	out.Reset()
	if code := run([]string{"migrate", "status"}, &out); code != 0 {
		t.Fatalf("migrate status: exit %d, output %q", code, out.String())
	}
	if strings.Contains(out.String(), "schema version: 0") {
		t.Fatalf("expected a non-zero schema version, got %q", out.String())
	}
}

func TestRun_MigrateUnknownSubcommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if code := run([]string{"migrate", "down"}, &out); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}
