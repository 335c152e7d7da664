package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const recvLog = "16:23:42.001000 RECV proto>UDP flow>1 seq>1 sent>16:23:42.000000 size>1000\n" +
	"16:23:43.001000 RECV proto>UDP flow>1 seq>2 sent>16:23:43.000000 size>1000\n"

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"only.csv"}} {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != 1 {
			t.Fatalf("run(%v) = %d, want 1", args, code)
		}
		if !strings.Contains(stderr.String(), "Usage: mgenstat") {
			t.Fatalf("expected usage message, got %q", stderr.String())
		}
		if stdout.Len() != 0 {
			t.Fatalf("expected no stdout output, got %q", stdout.String())
		}
	}
}

func TestRun_Success(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "host1_recv.log")
	if err := os.WriteFile(logPath, []byte(recvLog), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.csv")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-log-level", "error", logPath, out}, &stdout, &stderr); code != 0 {
		t.Fatalf("run = %d, stderr: %s", code, stderr.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "host1,") {
		t.Fatalf("unexpected CSV:\n%s", data)
	}
	if !strings.Contains(stdout.String(), "Summary across 1 hosts") {
		t.Fatalf("missing summary:\n%s", stdout.String())
	}
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run([]string{filepath.Join(dir, "gone_recv.log"), filepath.Join(dir, "out.csv")}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("run = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "analysis failed") {
		t.Fatalf("expected error log, got %q", stderr.String())
	}
}

func TestRun_BadConfig(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", filepath.Join(dir, "missing.yaml"), "a.log", "out.csv"}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("run = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "failed to load config") {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
}
