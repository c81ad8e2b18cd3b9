package queue

import (
	"fmt"
	"time"
)

// Status represents the lifecycle of a conversion job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

var allStatuses = []Status{
	StatusPending,
	StatusRunning,
	StatusSucceeded,
	StatusFailed,
	StatusSkipped,
}

// transitions lists the allowed next states for each state.
var transitions = map[Status][]Status{
	StatusPending: {StatusRunning, StatusSkipped},
	StatusRunning: {StatusSucceeded, StatusFailed, StatusSkipped},
	StatusFailed:  {StatusPending},
}

// AllStatuses returns every status in lifecycle order.
func AllStatuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// ParseStatus converts a stored status string back to a Status.
func ParseStatus(value string) (Status, error) {
	for _, status := range allStatuses {
		if string(status) == value {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", value)
}

// CanTransition reports whether from -> to is part of the lifecycle.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends a job's run.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// Job is one file to convert. InputPath is the identity within the queue;
// Seq tells apart successive insertions of the same path.
type Job struct {
	InputPath  string
	OutputPath string
	Status     Status
	Message    string
	Seq        uint64
	AddedAt    time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the last run took, or zero when it has not finished.
func (j Job) Duration() time.Duration {
	if j.StartedAt.IsZero() || j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

// Stats summarizes job counts per status.
type Stats struct {
	Total     int
	Pending   int
	Running   int
	Succeeded int
	Failed    int
	Skipped   int
	Completed int
	Progress  float64
}

// ComputeStats derives statistics from a job list.
func ComputeStats(jobs []Job) Stats {
	stats := Stats{Total: len(jobs)}
	for _, job := range jobs {
		switch job.Status {
		case StatusPending:
			stats.Pending++
		case StatusRunning:
			stats.Running++
		case StatusSucceeded:
			stats.Succeeded++
		case StatusFailed:
			stats.Failed++
		case StatusSkipped:
			stats.Skipped++
		}
	}
	stats.Completed = stats.Succeeded + stats.Failed + stats.Skipped
	if stats.Total > 0 {
		stats.Progress = float64(stats.Completed) / float64(stats.Total)
	}
	return stats
}

// Summary renders the counts the way the CLI status line shows them.
func (s Stats) Summary() string {
	return fmt.Sprintf("%d total · %d pending · %d running · %d succeeded · %d failed · %d skipped",
		s.Total, s.Pending, s.Running, s.Succeeded, s.Failed, s.Skipped)
}

// ProgressText renders completion as "completed/total (pct%)".
func (s Stats) ProgressText() string {
	return fmt.Sprintf("%d/%d (%.0f%%)", s.Completed, s.Total, s.Progress*100)
}
