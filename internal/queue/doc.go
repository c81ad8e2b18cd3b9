// Package queue holds the in-memory list of conversion jobs and the rules for
// driving their lifecycle.
//
// A Queue keeps jobs in insertion order and addresses them by input path,
// compared case-insensitively. Status changes go through Transition, which
// rejects anything outside the lifecycle table with ErrInvalidTransition.
// Stats are always derived from the current job list rather than tracked
// separately, so they cannot drift.
//
// The queue is safe for concurrent use. It does not persist anything; the
// history package records finished jobs.
package queue
