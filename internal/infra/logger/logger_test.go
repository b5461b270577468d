package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWritesJSONLines(t *testing.T) {
	dir := t.TempDir()

	cleanup, err := Setup(Config{Dir: dir, Debug: true})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := IsReady(); err != nil {
		t.Fatalf("expected ready logger: %v", err)
	}
	if Path() != filepath.Join(dir, "cosmic-fprint.log") {
		t.Fatalf("unexpected path %q", Path())
	}

	L().Debug("enroll.status", "result", "enroll-stage-passed")
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if IsReady() == nil {
		t.Fatalf("expected logger reset after cleanup")
	}

	b, err := os.ReadFile(filepath.Join(dir, "cosmic-fprint.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 log lines, got %d", len(lines))
	}
	if !strings.Contains(lines[2], `"msg":"logger.closed"`) {
		t.Fatalf("expected close record last, got %s", lines[2])
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("expected JSON line: %v", err)
	}
	if rec["msg"] != "enroll.status" || rec["result"] != "enroll-stage-passed" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestDefaultDirHonoursXDGStateHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got := DefaultDir(); got != filepath.Join("/tmp/state", "cosmic-fprint", "logs") {
		t.Fatalf("unexpected dir %q", got)
	}
}

func TestSetupRotatesOversizedLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cosmic-fprint.log")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0o600); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	cleanup, err := Setup(Config{Dir: dir, MaxBytes: 32})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer cleanup()

	old, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("expected rotated file: %v", err)
	}
	if len(old) != 64 {
		t.Fatalf("rotated file should keep old content, got %d bytes", len(old))
	}

	cur, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(cur), "xxxx") {
		t.Fatalf("new log must start empty")
	}
}

func TestRotateKeepsSmallLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cosmic-fprint.log")
	if err := os.WriteFile(path, []byte("small"), 0o600); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	rotated, err := rotate(path, 0)
	if err != nil || rotated {
		t.Fatalf("expected no rotation, got %v %v", rotated, err)
	}
	if _, err := rotate(filepath.Join(dir, "missing.log"), 1); err != nil {
		t.Fatalf("missing file is not an error: %v", err)
	}
}
