package queue

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"docbatch/internal/textutil"
)

// Queue is an insertion-ordered set of jobs keyed by case-folded input path.
type Queue struct {
	mu      sync.Mutex
	jobs    []Job
	index   map[string]int
	nextSeq uint64
	now     func() time.Time
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{index: make(map[string]int), now: time.Now}
}

func key(inputPath string) string {
	return textutil.Fold(inputPath)
}

// Add appends a pending job. It returns false when the input path is blank or
// already queued (compared case-insensitively).
func (q *Queue) Add(inputPath, outputPath string) (Job, bool) {
	inputPath = strings.TrimSpace(inputPath)
	if inputPath == "" {
		return Job{}, false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	k := key(inputPath)
	if idx, ok := q.index[k]; ok {
		return q.jobs[idx], false
	}
	q.nextSeq++
	job := Job{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Status:     StatusPending,
		Seq:        q.nextSeq,
		AddedAt:    q.now(),
	}
	q.index[k] = len(q.jobs)
	q.jobs = append(q.jobs, job)
	return job, true
}

// Contains reports whether inputPath is queued.
func (q *Queue) Contains(inputPath string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.index[key(inputPath)]
	return ok
}

// Get returns a copy of the job for inputPath.
func (q *Queue) Get(inputPath string) (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	idx, ok := q.index[key(inputPath)]
	if !ok {
		return Job{}, false
	}
	return q.jobs[idx], true
}

// Remove deletes the job for inputPath regardless of status.
func (q *Queue) Remove(inputPath string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	idx, ok := q.index[key(inputPath)]
	if !ok {
		return false
	}
	q.jobs = append(q.jobs[:idx], q.jobs[idx+1:]...)
	q.reindexLocked()
	return true
}

// Clear removes every job.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.jobs)
	q.jobs = nil
	q.index = make(map[string]int)
	return n
}

// Len returns the number of queued jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Jobs returns a snapshot of all jobs in insertion order.
func (q *Queue) Jobs() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Job(nil), q.jobs...)
}

// Stats derives statistics from the current job list.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return ComputeStats(q.jobs)
}

// PendingJobs returns copies of the pending jobs in insertion order.
func (q *Queue) PendingJobs() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	var jobs []Job
	for _, job := range q.jobs {
		if job.Status == StatusPending {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// Transition moves a job to status to and records message. Entering Running
// stamps StartedAt and clears FinishedAt; entering a terminal status stamps
// FinishedAt.
func (q *Queue) Transition(inputPath string, to Status, message string) (Job, error) {
	return q.TransitionSeq(inputPath, 0, to, message)
}

// TransitionSeq is Transition restricted to the insertion identified by seq.
// A job that was removed and queued again under the same path reports
// ErrNotFound. Zero matches any insertion.
func (q *Queue) TransitionSeq(inputPath string, seq uint64, to Status, message string) (Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	idx, ok := q.index[key(inputPath)]
	if !ok {
		return Job{}, fmt.Errorf("%w: %s", ErrNotFound, inputPath)
	}
	job := &q.jobs[idx]
	if seq != 0 && job.Seq != seq {
		return Job{}, fmt.Errorf("%w: %s was queued again", ErrNotFound, inputPath)
	}
	if !CanTransition(job.Status, to) {
		return *job, fmt.Errorf("%w: %s -> %s for %s", ErrInvalidTransition, job.Status, to, job.InputPath)
	}
	job.Status = to
	job.Message = message
	switch {
	case to == StatusRunning:
		job.StartedAt = q.now()
		job.FinishedAt = time.Time{}
	case to == StatusPending:
		job.StartedAt = time.Time{}
		job.FinishedAt = time.Time{}
	case to.IsTerminal():
		job.FinishedAt = q.now()
	}
	return *job, nil
}

// SetOutputPath changes the output path of a pending job.
func (q *Queue) SetOutputPath(inputPath, outputPath string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	idx, ok := q.index[key(inputPath)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, inputPath)
	}
	if q.jobs[idx].Status != StatusPending {
		return fmt.Errorf("%w: %s is %s", ErrNotPending, inputPath, q.jobs[idx].Status)
	}
	q.jobs[idx].OutputPath = outputPath
	return nil
}

// RecomputePending rewrites the output path of every pending job using
// outputFor and returns how many paths changed. Jobs in any other status keep
// their recorded output path.
func (q *Queue) RecomputePending(outputFor func(inputPath string) string) int {
	if outputFor == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	changed := 0
	for i := range q.jobs {
		if q.jobs[i].Status != StatusPending {
			continue
		}
		next := outputFor(q.jobs[i].InputPath)
		if next != q.jobs[i].OutputPath {
			q.jobs[i].OutputPath = next
			changed++
		}
	}
	return changed
}

// RetryFailed moves every failed job back to pending with its message cleared.
func (q *Queue) RetryFailed() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	var retried []string
	for i := range q.jobs {
		if q.jobs[i].Status != StatusFailed {
			continue
		}
		q.jobs[i].Status = StatusPending
		q.jobs[i].Message = ""
		q.jobs[i].StartedAt = time.Time{}
		q.jobs[i].FinishedAt = time.Time{}
		retried = append(retried, q.jobs[i].InputPath)
	}
	return retried
}

// ClearCompleted removes every job that is neither pending nor running.
func (q *Queue) ClearCompleted() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.jobs[:0]
	removed := 0
	for _, job := range q.jobs {
		if job.Status == StatusPending || job.Status == StatusRunning {
			kept = append(kept, job)
			continue
		}
		removed++
	}
	clear(q.jobs[len(kept):])
	q.jobs = kept
	q.reindexLocked()
	return removed
}

func (q *Queue) reindexLocked() {
	q.index = make(map[string]int, len(q.jobs))
	for i, job := range q.jobs {
		q.index[key(job.InputPath)] = i
	}
}
