// Package workflow runs conversion batches over the job queue.
//
// The Engine owns the queue, the tool readiness state, and the batch
// lifecycle. StartBatch snapshots the pending jobs and runs them through a
// counting gate of at most eight slots; each unit then re-checks that its job
// is still pending, honours cancellation and the pause gate, builds the tool
// arguments from the settings current at that moment, and runs the tool.
// Stats are recomputed after every job mutation and published to subscribers.
//
// Only one batch runs at a time. Pause holds back jobs that have not started
// yet; running conversions finish normally. Cancel kills running processes
// (their jobs become skipped) and skips everything still pending in the batch.
//
// Removing a job while it runs is allowed; the unit's later status writes for
// that job are dropped.
package workflow
