// Package main hosts the docbatch CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration, builds a workflow.Engine around
// the detected conversion tool, and exposes batch conversion, tool detection,
// per-format settings, presets, and run history. Heavy lifting lives in the
// internal packages; commands here only parse flags and render results.
package main
