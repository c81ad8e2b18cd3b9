//go:build unix

package main

import (
	"context"
	"os"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"docbatch/internal/logging"
	"docbatch/internal/testsupport"
)

func TestPauseToggleSignal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	engine := (&commandContext{}).newEngine(cfg, logging.NewNop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchPauseToggle(ctx, engine, logging.NewNop())

	for _, want := range []bool{true, false} {
		if err := unix.Kill(os.Getpid(), unix.SIGUSR1); err != nil {
			t.Fatalf("send SIGUSR1: %v", err)
		}
		deadline := time.After(5 * time.Second)
		for engine.Paused() != want {
			select {
			case <-deadline:
				t.Fatalf("engine paused=%v after signal, want %v", engine.Paused(), want)
			case <-time.After(10 * time.Millisecond):
			}
		}
	}
}
