package queue

import "errors"

var (
	// ErrInvalidTransition is returned when a status change is outside the lifecycle table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrNotFound is returned when no job has the requested input path.
	ErrNotFound = errors.New("job not found")
	// ErrNotPending is returned when an output path change targets a job that already ran.
	ErrNotPending = errors.New("job is not pending")
)
