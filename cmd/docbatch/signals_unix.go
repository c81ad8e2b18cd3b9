//go:build unix

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"docbatch/internal/logging"
	"docbatch/internal/workflow"
)

// watchPauseToggle flips the engine between paused and running on SIGUSR1
// until ctx ends.
func watchPauseToggle(ctx context.Context, engine *workflow.Engine, logger *slog.Logger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGUSR1)
	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigs:
				logger.Debug("pause toggle signal received", logging.Bool("paused", engine.Paused()))
				if engine.Paused() {
					engine.Resume()
				} else {
					engine.Pause()
				}
			}
		}
	}()
}
