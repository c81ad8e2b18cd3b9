package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"docbatch/internal/logging"
	"docbatch/internal/queue"
)

func TestFormatEventIncludesJobAndSelectedFields(t *testing.T) {
	evt := logging.LogEvent{
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local),
		Level:     "WARN",
		Message:   "conversion failed",
		Job:       "/docs/broken.md",
		Fields: map[string]string{
			"message":    "Could not parse",
			"exit_code":  "1",
			"error_hint": "ignored",
		},
	}
	got := formatEvent(evt, false)
	want := "03:04:05 WARN  conversion failed (broken.md) message=Could not parse exit_code=1"
	if got != want {
		t.Fatalf("formatEvent = %q, want %q", got, want)
	}
}

func TestConsoleFollowEventsDrainsOnStop(t *testing.T) {
	hub := logging.NewStreamHub(16)
	var buf bytes.Buffer
	c := newConsole(&buf, false)
	stop := c.followEvents(hub)

	hub.Publish(logging.LogEvent{Level: "INFO", Message: "first"})
	hub.Publish(logging.LogEvent{Level: "INFO", Message: "second"})
	stop()
	stop()

	out := buf.String()
	if strings.Count(out, "first") != 1 || strings.Count(out, "second") != 1 {
		t.Fatalf("expected each event once, got %q", out)
	}
}

func TestConsoleProgressOnlyOnTerminal(t *testing.T) {
	var buf bytes.Buffer
	c := newConsole(&buf, false)
	c.setProgress(queue.Stats{Total: 2, Completed: 1, Progress: 0.5})
	if buf.Len() != 0 {
		t.Fatalf("progress written off-terminal: %q", buf.String())
	}

	c = newConsole(&buf, true)
	c.setProgress(queue.Stats{Total: 2, Completed: 1, Running: 1, Progress: 0.5})
	c.line("hello")
	out := buf.String()
	if !strings.Contains(out, "1/2 (50%)") || !strings.Contains(out, "hello\n") {
		t.Fatalf("unexpected console output %q", out)
	}
}
