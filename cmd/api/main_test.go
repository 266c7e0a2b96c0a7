package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	appconfig "github.com/wolfman30/honeypot-agent/internal/config"
)

func TestSetupMetricsExposesMetrics(t *testing.T) {
	handler, metrics := setupMetrics()
	if handler == nil || metrics == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	metrics.ObserveDecision("engaged")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "honeypot_decision_total") {
		t.Fatalf("expected decision counter to be exported")
	}
}

func TestSetupLoggerWritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "honeypot.log")
	logger, closeLog, err := setupLogger(&appconfig.Config{LogLevel: "info", LogFormat: "json", LogFile: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("file sink check")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "file sink check") {
		t.Fatalf("expected log line in file, got %q", string(data))
	}
}

func TestSetupLoggerRejectsUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "honeypot.log")
	if _, _, err := setupLogger(&appconfig.Config{LogFile: path}); err == nil {
		t.Fatalf("expected error for unwritable log path")
	}
}
