// Package cmdline splits free-text argument strings into argv tokens.
//
// The rules are intentionally small: whitespace separates tokens, single and
// double quotes group text (including whitespace) into one token, and quote
// characters are never emitted. There is no backslash escaping, so Windows
// paths survive unchanged.
package cmdline
