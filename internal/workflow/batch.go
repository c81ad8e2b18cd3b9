package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docbatch/internal/cmdline"
	"docbatch/internal/config"
	"docbatch/internal/formats"
	"docbatch/internal/history"
	"docbatch/internal/logging"
	"docbatch/internal/queue"
	"docbatch/internal/services"
	"docbatch/internal/services/pandoc"
)

// Summary is the outcome of a finished batch.
type Summary struct {
	BatchID   string
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Cancelled bool
	Duration  time.Duration
}

// String renders the summary on one line.
func (s Summary) String() string {
	text := fmt.Sprintf("%d jobs: %d succeeded, %d failed, %d skipped in %s",
		s.Total, s.Succeeded, s.Failed, s.Skipped, s.Duration.Round(time.Millisecond))
	if s.Cancelled {
		text += " (cancelled)"
	}
	return text
}

// Batch is a handle on one StartBatch run.
type Batch struct {
	ID          string
	StartedAt   time.Time
	Parallelism int
	Executable  string

	ctx    context.Context
	cancel context.CancelFunc
	units  []queue.Job
	done   chan struct{}

	mu      sync.Mutex
	claimed map[uint64]struct{}
	summary Summary
}

// Inputs lists the jobs snapshotted when the batch started.
func (b *Batch) Inputs() []string {
	inputs := make([]string, len(b.units))
	for i, unit := range b.units {
		inputs[i] = unit.InputPath
	}
	return inputs
}

// Done is closed when the batch has finished.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until the batch finishes and returns its summary.
func (b *Batch) Wait() Summary {
	<-b.done
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summary
}

func (b *Batch) claim(seq uint64) {
	b.mu.Lock()
	b.claimed[seq] = struct{}{}
	b.mu.Unlock()
}

func (b *Batch) isClaimed(seq uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.claimed[seq]
	return ok
}

func (b *Batch) tally(status queue.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch status {
	case queue.StatusSucceeded:
		b.summary.Succeeded++
	case queue.StatusFailed:
		b.summary.Failed++
	case queue.StatusSkipped:
		b.summary.Skipped++
	}
}

// StartBatch runs every job pending right now with at most maxParallelism
// (clamped to 1..8) conversions in flight. It returns once the batch is
// launched; use Batch.Wait for the outcome. Cancelling ctx cancels the batch.
func (e *Engine) StartBatch(ctx context.Context, maxParallelism int) (*Batch, error) {
	if e.ActiveBatch() != nil {
		return nil, ErrBatchRunning
	}
	ready := e.Readiness(ctx)
	if !ready.Ready {
		return nil, fmt.Errorf("%w: %s", ErrToolNotReady, ready.Detail)
	}

	e.mu.Lock()
	if e.batch != nil {
		e.mu.Unlock()
		return nil, ErrBatchRunning
	}
	batchCtx, cancel := context.WithCancel(ctx)
	b := &Batch{
		ID:          uuid.NewString(),
		StartedAt:   time.Now(),
		Parallelism: config.ClampParallelism(maxParallelism),
		Executable:  ready.Detection.Path,
		cancel:      cancel,
		units:       e.queue.PendingJobs(),
		done:        make(chan struct{}),
		claimed:     make(map[uint64]struct{}),
	}
	b.ctx = services.WithBatchID(batchCtx, b.ID)
	b.summary = Summary{BatchID: b.ID, Total: len(b.units)}
	e.batch = b
	cfg := e.cfg.Clone()
	e.mu.Unlock()

	recordCtx := context.WithoutCancel(b.ctx)
	if e.recorder != nil {
		if err := e.recorder.BeginBatch(recordCtx, history.BatchRecord{
			ID:           b.ID,
			StartedAt:    b.StartedAt,
			ToolPath:     b.Executable,
			OutputFormat: cfg.Conversion.OutputFormat,
			Parallelism:  b.Parallelism,
			Total:        len(b.units),
		}); err != nil {
			e.historyWarning(err)
		}
	}
	e.remember(recordCtx, history.RecentFormats, cfg.Conversion.OutputFormat)
	e.remember(recordCtx, history.RecentOutputDirs, cfg.Conversion.OutputDir)
	e.remember(recordCtx, history.RecentTemplates, cfg.Conversion.TemplatePath)

	go e.runBatch(b)
	return b, nil
}

func (e *Engine) runBatch(b *Batch) {
	logger := logging.WithContext(b.ctx, e.logger)
	logger.Info("batch started",
		logging.Int("jobs", len(b.units)),
		logging.Int("parallelism", b.Parallelism),
		logging.String("executable", b.Executable),
		logging.String(logging.FieldEventType, "batch_started"),
	)

	gate := make(chan struct{}, b.Parallelism)
	var wg sync.WaitGroup
dispatch:
	for _, unit := range b.units {
		select {
		case gate <- struct{}{}:
		case <-b.ctx.Done():
			break dispatch
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-gate }()
			e.runUnit(b, unit)
		}()
	}
	wg.Wait()

	cancelled := b.ctx.Err() != nil
	if cancelled {
		logger.Info("batch cancelled", logging.String(logging.FieldEventType, "batch_cancelled"))
		e.skipUnclaimed(b)
	}
	e.finishBatch(b, cancelled, logger)
}

// runUnit carries one snapshotted job from pending to a terminal status.
// A job removed and queued again after the snapshot is a different job and
// is left for the next batch.
func (e *Engine) runUnit(b *Batch, unit queue.Job) {
	input := unit.InputPath
	ctx := services.WithJob(b.ctx, input)
	logger := logging.WithContext(ctx, e.logger)
	started := false
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWithContext(logger, "conversion unit panicked", "job_panic",
				logging.String("panic", fmt.Sprint(r)),
				logging.String("stack", string(debug.Stack())),
			)
			if !started {
				if _, err := e.queue.TransitionSeq(input, unit.Seq, queue.StatusRunning, ""); err != nil {
					return
				}
			}
			e.complete(ctx, b, unit, outcome{status: queue.StatusFailed, message: fmt.Sprintf("internal error: %v", r)})
		}
	}()

	job, ok := e.queue.Get(input)
	if !ok || job.Seq != unit.Seq || job.Status != queue.StatusPending {
		logger.Debug("job no longer pending")
		return
	}
	b.claim(unit.Seq)

	if ctx.Err() != nil {
		e.complete(ctx, b, unit, skippedOutcome)
		return
	}
	if err := e.gate.wait(ctx); err != nil {
		e.complete(ctx, b, unit, skippedOutcome)
		return
	}

	cfg := e.Settings()
	if strings.TrimSpace(job.OutputPath) == "" {
		_ = e.queue.SetOutputPath(input, formats.NewResolver(cfg).OutputPathFunc()(input))
	}
	job, err := e.queue.TransitionSeq(input, unit.Seq, queue.StatusRunning, "")
	if err != nil {
		logger.Debug("job changed before start", logging.Error(err))
		return
	}
	started = true
	e.publish()

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		e.complete(ctx, b, unit, outcome{
			status:  queue.StatusFailed,
			message: fmt.Sprintf("create output directory: %v", err),
			hint:    "check the output directory is writable",
		})
		return
	}

	args := BuildArguments(cfg, job.InputPath, job.OutputPath)
	logger.Info("conversion started",
		logging.String("output", job.OutputPath),
		logging.String("args", cmdline.Join(args)),
		logging.String(logging.FieldEventType, "job_started"),
	)

	result, err := e.runner.Run(ctx, b.Executable, args)
	switch {
	case err != nil:
		e.complete(ctx, b, unit, errorOutcome(err, result))
	case result.Succeeded:
		e.complete(ctx, b, unit, outcome{status: queue.StatusSucceeded, message: messageDone, result: result})
	default:
		e.complete(ctx, b, unit, outcome{status: queue.StatusFailed, message: FailureMessage(result.Stderr), result: result})
	}
}

// outcome is the terminal state a unit reports for its job.
type outcome struct {
	status  queue.Status
	message string
	hint    string
	result  pandoc.RunResult
}

var skippedOutcome = outcome{status: queue.StatusSkipped, message: messageCancelled}

const defaultFailureHint = "see the tool's stderr in the log; fix the input or arguments and retry"

func errorOutcome(err error, result pandoc.RunResult) outcome {
	status := services.FailureStatus(err)
	if status == queue.StatusSkipped {
		return outcome{status: status, message: messageCancelled, result: result}
	}
	return outcome{status: status, message: err.Error(), hint: services.Hint(err), result: result}
}

// complete records a terminal status. Jobs removed from the queue while
// running are dropped silently, as are results for a path queued again
// under a new insertion.
func (e *Engine) complete(ctx context.Context, b *Batch, unit queue.Job, out outcome) {
	logger := logging.WithContext(ctx, e.logger)
	job, err := e.queue.TransitionSeq(unit.InputPath, unit.Seq, out.status, out.message)
	if err != nil {
		if errors.Is(err, queue.ErrNotFound) {
			logger.Debug("job removed before completion; result dropped", logging.String("status", string(out.status)))
			return
		}
		logger.Warn("job status update rejected",
			logging.Error(err),
			logging.String(logging.FieldEventType, "job_transition_rejected"),
		)
		return
	}
	b.tally(out.status)
	e.publish()

	attrs := []logging.Attr{
		logging.String("status", string(out.status)),
		logging.String("output", job.OutputPath),
		logging.Duration("duration", job.Duration()),
	}
	switch out.status {
	case queue.StatusSucceeded:
		logger.Info("conversion finished", logging.Args(append(attrs,
			logging.String(logging.FieldEventType, "job_succeeded"))...)...)
	case queue.StatusFailed:
		hint := out.hint
		if hint == "" {
			hint = defaultFailureHint
		}
		logging.WarnWithContext(logger, "conversion failed", "job_failed", append(attrs,
			logging.String("message", out.message),
			logging.Int("exit_code", out.result.ExitCode),
			logging.String(logging.FieldErrorHint, hint),
			logging.String(logging.FieldImpact, "no output written for this file"),
		)...)
	default:
		logger.Info("conversion skipped", logging.Args(append(attrs,
			logging.String("message", out.message),
			logging.String(logging.FieldEventType, "job_skipped"))...)...)
	}
	if stderr := strings.TrimSpace(out.result.Stderr); stderr != "" {
		logger.Debug("tool stderr", logging.String("stderr", stderr))
	}

	if e.recorder != nil {
		if err := e.recorder.RecordJob(context.WithoutCancel(ctx), history.JobResult{
			BatchID:    b.ID,
			InputPath:  job.InputPath,
			OutputPath: job.OutputPath,
			Status:     out.status,
			Message:    out.message,
			ExitCode:   out.result.ExitCode,
			Duration:   job.Duration(),
			FinishedAt: job.FinishedAt,
		}); err != nil {
			e.historyWarning(err)
		}
	}
}

// skipUnclaimed marks snapshotted jobs that no unit reached as skipped.
func (e *Engine) skipUnclaimed(b *Batch) {
	for _, unit := range b.units {
		if b.isClaimed(unit.Seq) {
			continue
		}
		job, ok := e.queue.Get(unit.InputPath)
		if !ok || job.Seq != unit.Seq || job.Status != queue.StatusPending {
			continue
		}
		e.complete(b.ctx, b, unit, skippedOutcome)
	}
}

func (e *Engine) finishBatch(b *Batch, cancelled bool, logger *slog.Logger) {
	b.mu.Lock()
	b.summary.Cancelled = cancelled
	b.summary.Duration = time.Since(b.StartedAt)
	summary := b.summary
	b.mu.Unlock()

	if e.recorder != nil {
		if err := e.recorder.FinishBatch(context.WithoutCancel(b.ctx), b.ID, history.BatchTotals{
			Total:     summary.Total,
			Succeeded: summary.Succeeded,
			Failed:    summary.Failed,
			Skipped:   summary.Skipped,
			Cancelled: cancelled,
		}); err != nil {
			e.historyWarning(err)
		}
	}

	e.Resume()
	e.mu.Lock()
	e.batch = nil
	e.mu.Unlock()
	b.cancel()

	logger.Info("batch finished",
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration),
		logging.Bool("cancelled", cancelled),
		logging.String(logging.FieldEventType, "batch_finished"),
	)
	close(b.done)
	e.publish()
}

func (e *Engine) historyWarning(err error) {
	logging.WarnWithContext(e.logger, "history write failed", "history_write_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the data directory is writable"),
		logging.String(logging.FieldImpact, "batch results missing from 'docbatch history'"),
	)
}
