// Package history persists finished batches, per-job results, and the recent
// lists (files, output directories, templates, output formats) in SQLite.
//
// The Store opens the database with WAL journaling, a busy timeout, and
// foreign keys enabled, and retries briefly when another docbatch process
// holds the write lock. Schema changes bump schemaVersion; an older database
// is rejected with ErrSchemaMismatch and can simply be deleted, since history
// is informational.
package history
