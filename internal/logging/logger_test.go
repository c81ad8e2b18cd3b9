package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docbatch/internal/config"
	"docbatch/internal/logging"
	"docbatch/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	hub := logging.NewStreamHub(16)

	logger, err := logging.NewFromConfig(&cfg, hub)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("batch started")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "docbatch.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "batch started") {
		t.Fatalf("expected message in log file, got %q", content)
	}
	if events, _ := hub.Tail(1); len(events) != 1 {
		t.Fatalf("expected stream hub to receive event, got %d", len(events))
	}
}

func TestConsoleLoggerFormatsSubjectAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "engine").Info("job finished",
		logging.String(logging.FieldBatchID, "1b4e28ba-2fa1-11d2-883f-0016d3cca427"),
		logging.String(logging.FieldJob, "/docs/report.md"),
		logging.String("status", "failed"),
		logging.String("message", "pandoc: missing file"),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, fragment := range []string{"INFO engine: job finished", "[1b4e28ba · report.md]", "status=failed", `message="pandoc: missing file"`} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("resolver step")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected caller information at debug level, got %q", content)
	}
}

func TestJSONLoggerUsesStableKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("tool not ready", logging.Error(os.ErrNotExist))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry["level"] != "warn" || entry["msg"] != "tool not ready" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key, got %+v", entry)
	}
	if entry["error"] != os.ErrNotExist.Error() {
		t.Fatalf("expected error rendered as string, got %+v", entry["error"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", OutputPaths: []string{"discard"}}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	hub := logging.NewStreamHub(4)
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{"discard"}, Stream: hub})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "output directory not writable", "output_dir_check")

	events, _ := hub.Tail(1)
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	evt := events[0]
	if evt.EventType != "output_dir_check" {
		t.Fatalf("unexpected event type %q", evt.EventType)
	}
	if evt.Fields[logging.FieldErrorHint] == "" || evt.Fields[logging.FieldImpact] == "" {
		t.Fatalf("expected hint and impact defaults, got %+v", evt.Fields)
	}
}

func TestWithContextAddsServiceFields(t *testing.T) {
	hub := logging.NewStreamHub(4)
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{"discard"}, Stream: hub})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithBatchID(context.Background(), "batch-7")
	ctx = services.WithJob(ctx, "/docs/b.md")
	logging.WithContext(ctx, logger).Info("job started")

	events, _ := hub.Tail(1)
	if len(events) != 1 || events[0].BatchID != "batch-7" || events[0].Job != "/docs/b.md" {
		t.Fatalf("unexpected event %+v", events)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{"debug": "DEBUG", "WARN": "WARN", "warning": "WARN", "error": "ERROR", "": "INFO", "bogus": "INFO"}
	for in, want := range cases {
		if got := logging.ParseLevel(in).String(); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
