// Package logging assembles structured slog loggers and formatting helpers used
// across docbatch.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so engine code can tag log lines
// with job paths and batch IDs. A StreamHub keeps a bounded window of recent
// events that the CLI tails while a batch runs. The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape and routing as the rest of the system.
package logging
