// Package pandoc runs the external document conversion tool.
//
// Runner launches the tool with an argument vector, captures stdout and
// stderr concurrently, and reports the exit status as a RunResult. Context
// cancellation kills the whole process group and surfaces as the context
// error rather than as a failed result. VersionInfo and ListFormats wrap the
// read-only queries used for readiness checks; both apply their own short
// timeouts and never return errors, so a misbehaving binary reads as "not
// ready" instead of blocking callers.
package pandoc
