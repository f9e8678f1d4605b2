package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_TextToConsole(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Options{Level: "debug", Console: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Debugf("picked %d clips", 3)
	if !strings.Contains(buf.String(), "picked 3 clips") {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no colors for a non-terminal writer: %q", buf.String())
	}
}

func TestNew_JSONAndFileSink(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()
	l, err := New(Options{Level: "info", Format: "json", LogDir: dir, Console: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Logf("run %s", "abc")
	l.Debug("hidden")
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("console output is not a single json line: %v: %q", err, buf.String())
	}
	if entry["msg"] != "run abc" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "run abc") || strings.Contains(string(data), "hidden") {
		t.Fatalf("unexpected log file contents: %q", data)
	}
}

func TestNew_RejectsUnknownValues(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestNilLoggerLogf(t *testing.T) {
	var l *Logger
	l.Logf("ignored")
	if err := l.Close(); err != nil {
		t.Fatalf("close nil: %v", err)
	}
}
