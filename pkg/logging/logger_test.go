package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{" Info ", InfoLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func decode(t *testing.T, line string) LogEntry {
	t.Helper()
	var entry LogEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry %q: %v", line, err)
	}
	return entry
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("car arrived", NodeID(7), Cost(0))

	entry := decode(t, buf.String())
	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "car arrived" {
		t.Errorf("Message = %v", entry.Message)
	}
	if entry.Fields["node_id"] != float64(7) {
		t.Errorf("node_id = %v, want 7", entry.Fields["node_id"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("move rejected")
	logger.Info("tick")
	logger.Warn("record skipped")
	logger.Error("load failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}
	if decode(t, lines[0]).Level != "WARN" || decode(t, lines[1]).Level != "ERROR" {
		t.Errorf("unexpected levels in %v", lines)
	}
}

func TestJSONLogger_WithSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := NewJSONLogger(&buf, InfoLevel)
	child := root.With(Component("movement"), RunID("abc"))

	root.SetLevel(ErrorLevel)
	child.Info("suppressed")
	if buf.Len() != 0 {
		t.Fatal("child ignored the parent's level change")
	}

	child.Error("anomaly", Edge(9, 3))
	entry := decode(t, buf.String())
	if entry.Fields["component"] != "movement" || entry.Fields["run_id"] != "abc" {
		t.Errorf("preset fields missing: %v", entry.Fields)
	}
	if entry.Fields["edge"] != "3-9" {
		t.Errorf("edge = %v, want 3-9", entry.Fields["edge"])
	}
	if child.GetLevel() != ErrorLevel {
		t.Errorf("child level = %v", child.GetLevel())
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, InfoLevel).Info("plain")

	if strings.Contains(buf.String(), "fields") {
		t.Errorf("empty fields should be omitted: %s", buf.String())
	}
}

func TestFieldHelpers(t *testing.T) {
	if f := Duration("interval", 100*time.Millisecond); f.Value != "100ms" {
		t.Errorf("Duration() = %+v", f)
	}
	if f := Error(errors.New("boom")); f.Key != "error" || f.Value != "boom" {
		t.Errorf("Error() = %+v", f)
	}
	if f := Error(nil); f.Value != nil {
		t.Errorf("Error(nil) = %+v", f)
	}
	if f := Position(1.5, 2); f.Value != [2]float64{1.5, 2} {
		t.Errorf("Position() = %+v", f)
	}
	if f := Direction("up"); f.Key != "direction" || f.Value != "up" {
		t.Errorf("Direction() = %+v", f)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roadsim.log")

	logger, closer, err := NewFileLogger(path, DebugLevel)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Debug("written to file", Path(path))
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if decode(t, strings.TrimSpace(string(data))).Message != "written to file" {
		t.Errorf("unexpected file content %q", data)
	}

	if _, _, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "x.log"), InfoLevel); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestStartTimer(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	StartTimer(logger, "graph loaded", Path("edges.csv")).End(Count(3))

	entry := decode(t, buf.String())
	if entry.Fields["latency"] == nil || entry.Fields["count"] != float64(3) {
		t.Errorf("timer fields = %v", entry.Fields)
	}

	buf.Reset()
	StartTimer(logger, "graph load").EndError(errors.New("no such file"))
	entry = decode(t, buf.String())
	if entry.Level != "ERROR" || entry.Fields["error"] != "no such file" {
		t.Errorf("EndError entry = %+v", entry)
	}
}

func TestGlobalDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	defer SetDefaultLogger(NewNopLogger())

	DefaultLogger().Debug("from default")
	if decode(t, buf.String()).Message != "from default" {
		t.Errorf("default logger not replaced: %q", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("ignored")
	if l.With(Count(1)) == nil || l.GetLevel() != InfoLevel {
		t.Error("NopLogger misbehaves")
	}
}
