// Package logs reads the docbatch log file for `docbatch logs`.
//
// Reads only consume complete lines, so a writer that is halfway through a
// record never produces a torn line; the partial tail is picked up by the
// next read. A file that shrinks below the caller's offset is treated as
// rotated and read again from the start.
package logs
