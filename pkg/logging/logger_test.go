package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		enable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"warn level", "warn", slog.LevelWarn},
		{"uppercase warning", "WARNING", slog.LevelWarn},
		{"default info", "", slog.LevelInfo},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if !logger.Enabled(ctx, tt.enable) {
				t.Fatalf("expected level %s to be enabled", tt.enable)
			}
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	logger := Default()
	logger.Info("test message", "key", "value")

	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Default() should enable info level")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Default() should not enable debug level (info is higher)")
	}
	if logger.Logger == nil {
		t.Fatal("Default() returned Logger with nil slog.Logger")
	}
	if Default() == logger {
		t.Error("Default() returned the same instance twice - expected new instances")
	}
}

func TestNewWithOptions_JSONCarriesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOptions(Options{Level: "info", Output: &buf})

	logger.With("request_id", "req-1", "session_id", "sess-1").Info("request_received", "history_len", 2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "request_received" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["request_id"] != "req-1" || entry["session_id"] != "sess-1" {
		t.Fatalf("expected request/session ids, got %v", entry)
	}
	if entry["logger"] != "honeypot" {
		t.Fatalf("expected logger name, got %v", entry["logger"])
	}
}

func TestNewWithOptions_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOptions(Options{Level: "debug", Format: "console", Output: &buf})

	logger.Debug("heuristic_score_computed", "score", 0.5)

	line := buf.String()
	if !strings.Contains(line, "msg=heuristic_score_computed") || !strings.Contains(line, "score=0.5") {
		t.Fatalf("expected text handler output, got %q", line)
	}
}
