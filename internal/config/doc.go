// Package config loads, normalizes, validates, and persists docbatch settings.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads and writes TOML files, and honours environment fallbacks
// such as DOCBATCH_TOOL_PATH. The Config value is the explicit settings object
// handed to the resolver, the format layer, and the queue engine; nothing in
// the repository reads settings from a process-wide singleton.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a clamped parallelism value, and clear validation errors.
package config
