// Package textutil provides small text helpers shared by the resolver,
// runner, and queue packages.
//
// The primary use cases are:
//   - Case-insensitive identity for format names and input paths (Unicode
//     case folding via golang.org/x/text/cases)
//   - Splitting tool output into trimmed, non-blank lines
package textutil
