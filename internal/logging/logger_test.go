package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConsoleWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livecap.log")
	logger, err := New(Options{Level: "info", Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("session started", String(FieldSessionID, "abc"), Int(FieldEntryCount, 3))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "INFO") || !strings.Contains(line, "session started") {
		t.Errorf("log line = %q", line)
	}
	if !strings.Contains(line, "session_id=abc") || !strings.Contains(line, "entry_count=3") {
		t.Errorf("missing attrs: %q", line)
	}
}

func TestNewConsoleComponentPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livecap.log")
	logger, err := New(Options{Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	NewComponentLogger(logger, "tracker").Info("resync forced")

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "tracker: resync forced") {
		t.Errorf("log line = %q", string(data))
	}
}

func TestNewJSONOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livecap.json")
	logger, err := New(Options{Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Warn("desync", Int("desync_count", 7))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("log line not JSON: %v (%q)", err, string(data))
	}
	if record["msg"] != "desync" || record["level"] != "warn" {
		t.Errorf("record = %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Error("record missing ts")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "livecap.log")
	logger, err := New(Options{Level: "warn", Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")

	data, _ := os.ReadFile(path)
	line := string(data)
	if strings.Contains(line, "hidden") {
		t.Errorf("filtered levels leaked: %q", line)
	}
	if !strings.Contains(line, "visible") {
		t.Errorf("warn line missing: %q", line)
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic and must report disabled at every level.
	logger.Info("ignored")
	if logger.Enabled(nil, 0) {
		t.Error("nop logger reports enabled")
	}
}
