package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestStreamHandlerCapturesAttrs(t *testing.T) {
	hub := NewStreamHub(100)
	handler := newStreamHandler(slog.NewTextHandler(discardWriter{}, nil), hub)

	logger := slog.New(handler).
		With(slog.String(FieldComponent, "engine")).
		With(slog.String(FieldBatchID, "b-42"))
	logger.Info("job finished",
		slog.String(FieldJob, "/docs/a.md"),
		slog.String(FieldEventType, "job_finished"),
		slog.String("status", "succeeded"),
	)

	events, next := hub.Tail(10)
	if len(events) != 1 || next != 1 {
		t.Fatalf("expected 1 event at seq 1, got %d (next=%d)", len(events), next)
	}
	evt := events[0]
	if evt.Component != "engine" || evt.BatchID != "b-42" || evt.Job != "/docs/a.md" {
		t.Fatalf("unexpected event identity: %+v", evt)
	}
	if evt.EventType != "job_finished" || evt.Fields["status"] != "succeeded" {
		t.Fatalf("unexpected event fields: %+v", evt)
	}
	if evt.Level != "INFO" {
		t.Fatalf("unexpected level %q", evt.Level)
	}
}

func TestStreamHandlerCallSiteOverridesWithAttrs(t *testing.T) {
	hub := NewStreamHub(10)
	logger := slog.New(newStreamHandler(slog.NewTextHandler(discardWriter{}, nil), hub)).
		With(slog.String(FieldJob, "original.md"))
	logger.Info("message", slog.String(FieldJob, "override.md"))

	events, _ := hub.Tail(1)
	if len(events) != 1 || events[0].Job != "override.md" {
		t.Fatalf("expected call-site job to win, got %+v", events)
	}
}

func TestStreamHandlerNilHubReturnsBase(t *testing.T) {
	base := slog.NewTextHandler(discardWriter{}, nil)
	if handler := newStreamHandler(base, nil); handler != base {
		t.Fatal("expected base handler when hub is nil")
	}
}

func TestStreamHubEvictsOldest(t *testing.T) {
	hub := NewStreamHub(3)
	for i := 0; i < 5; i++ {
		hub.Publish(LogEvent{Message: "line"})
	}
	events, next := hub.Tail(0)
	if len(events) != 3 || next != 5 {
		t.Fatalf("expected 3 buffered events and next=5, got %d next=%d", len(events), next)
	}
	if hub.FirstSequence() != 3 {
		t.Fatalf("expected first sequence 3, got %d", hub.FirstSequence())
	}

	fetched, _, err := hub.Fetch(context.Background(), 4, 10, false)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(fetched) != 1 || fetched[0].Sequence != 5 {
		t.Fatalf("expected only seq 5, got %+v", fetched)
	}
	if fetched, _, _ = hub.Fetch(context.Background(), 5, 10, false); len(fetched) != 0 {
		t.Fatalf("expected no events past the head, got %+v", fetched)
	}
}

func TestStreamHubFetchWaitsForPublish(t *testing.T) {
	hub := NewStreamHub(10)
	done := make(chan []LogEvent, 1)
	go func() {
		events, _, _ := hub.Fetch(context.Background(), 0, 10, true)
		done <- events
	}()

	time.Sleep(20 * time.Millisecond)
	hub.Publish(LogEvent{Message: "batch started"})

	select {
	case events := <-done:
		if len(events) != 1 || events[0].Message != "batch started" {
			t.Fatalf("unexpected events %+v", events)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Fetch did not wake after Publish")
	}
}

func TestStreamHubFetchHonoursCancellation(t *testing.T) {
	hub := NewStreamHub(10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := hub.Fetch(ctx, 0, 10, true)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Fetch did not return after cancellation")
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
