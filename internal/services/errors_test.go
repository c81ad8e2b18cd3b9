package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"docbatch/internal/queue"
	"docbatch/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("exec: no such file")
	err := services.Wrap(services.ErrLaunch, "pandoc", "run", "start process", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrLaunch) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"pandoc", "run", "start process"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestFailureStatusMapping(t *testing.T) {
	if status := services.FailureStatus(context.Canceled); status != queue.StatusSkipped {
		t.Fatalf("expected skipped for cancellation, got %s", status)
	}
	wrapped := fmt.Errorf("run: %w", context.DeadlineExceeded)
	if status := services.FailureStatus(wrapped); status != queue.StatusSkipped {
		t.Fatalf("expected skipped for deadline, got %s", status)
	}
	launch := services.Wrap(services.ErrLaunch, "pandoc", "run", "", errors.New("denied"))
	if status := services.FailureStatus(launch); status != queue.StatusFailed {
		t.Fatalf("expected failed for launch error, got %s", status)
	}
	if status := services.FailureStatus(nil); status != queue.StatusFailed {
		t.Fatalf("expected failed for nil error, got %s", status)
	}
}

func TestHint(t *testing.T) {
	if hint := services.Hint(services.Wrap(services.ErrLaunch, "", "", "x", nil)); !strings.Contains(hint, "detect") {
		t.Fatalf("unexpected launch hint %q", hint)
	}
	if hint := services.Hint(errors.New("plain")); hint != "" {
		t.Fatalf("expected no hint, got %q", hint)
	}
}
