// Package services defines shared utilities consumed by the conversion engine
// and the external tool integration.
//
// Key responsibilities:
//   - Context helpers that stamp job input paths and batch IDs for logging.
//   - Structured error markers plus the Wrap helper that let callers tell
//     launch failures apart from timeouts.
//   - FailureStatus and Hint, which the engine uses to classify a job's run
//     error and suggest a fix.
//
// Use these helpers when wiring new tool integrations so error handling and
// observability stay uniform.
package services
