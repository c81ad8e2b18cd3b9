package workflow

import (
	"context"
	"log/slog"
	"sync"

	"docbatch/internal/config"
	"docbatch/internal/deps"
	"docbatch/internal/formats"
	"docbatch/internal/history"
	"docbatch/internal/logging"
	"docbatch/internal/preflight"
	"docbatch/internal/queue"
	"docbatch/internal/services/pandoc"
)

// Runner executes the conversion tool.
type Runner interface {
	Run(ctx context.Context, executable string, args []string) (pandoc.RunResult, error)
	VersionInfo(ctx context.Context, executable string) (*pandoc.VersionInfo, bool)
	ListFormats(ctx context.Context, executable string, kind pandoc.FormatKind) []string
}

// Recorder persists batch outcomes and recent-list entries.
type Recorder interface {
	BeginBatch(ctx context.Context, rec history.BatchRecord) error
	RecordJob(ctx context.Context, res history.JobResult) error
	FinishBatch(ctx context.Context, id string, totals history.BatchTotals) error
	AddRecent(ctx context.Context, kind history.RecentKind, value string) error
}

// Engine coordinates the job queue and conversion batches.
type Engine struct {
	queue    *queue.Queue
	runner   Runner
	detector preflight.Detector
	recorder Recorder
	logger   *slog.Logger
	gate     pauseGate

	mu        sync.Mutex
	cfg       *config.Config
	batch     *Batch
	readiness *preflight.Readiness

	subsMu sync.Mutex
	subs   map[chan queue.Stats]struct{}
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithRecorder stores batch history and recent lists through rec.
func WithRecorder(rec Recorder) Option {
	return func(e *Engine) {
		e.recorder = rec
	}
}

// WithQueue uses q instead of a fresh queue.
func WithQueue(q *queue.Queue) Option {
	return func(e *Engine) {
		if q != nil {
			e.queue = q
		}
	}
}

// NewEngine constructs an engine over cfg. The engine keeps cfg and reads it
// whenever a job's arguments are built; change it through ApplySettings.
func NewEngine(cfg *config.Config, runner Runner, detector preflight.Detector, logger *slog.Logger, opts ...Option) *Engine {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	e := &Engine{
		queue:    queue.New(),
		runner:   runner,
		detector: detector,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		cfg:      cfg,
		subs:     make(map[chan queue.Stats]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings returns a copy of the current configuration.
func (e *Engine) Settings() *config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Clone()
}

// ApplySettings mutates the configuration under the engine lock and then
// recomputes the output path of every pending job. It returns how many
// pending output paths changed.
func (e *Engine) ApplySettings(fn func(cfg *config.Config)) int {
	e.mu.Lock()
	if fn != nil {
		fn(e.cfg)
	}
	outputFor := formats.NewResolver(e.cfg).OutputPathFunc()
	e.mu.Unlock()

	changed := e.queue.RecomputePending(outputFor)
	if changed > 0 {
		e.logger.Debug("pending output paths recomputed", logging.Int("changed", changed))
		e.publish()
	}
	return changed
}

// ResolveExecutable runs the detection cascade using the configured
// preferred path.
func (e *Engine) ResolveExecutable(ctx context.Context) deps.DetectionResult {
	return e.detector.Resolve(ctx, e.Settings().Tool.Path)
}

// Readiness detects the tool and queries its version and formats. The result
// is cached for LastReadiness.
func (e *Engine) Readiness(ctx context.Context) preflight.Readiness {
	ready := preflight.CheckTool(ctx, e.detector, e.runner, e.Settings().Tool.Path)
	e.mu.Lock()
	e.readiness = &ready
	e.mu.Unlock()

	if ready.Ready {
		e.logger.Info("tool ready",
			logging.String("path", ready.Detection.Path),
			logging.String("version", ready.Version.Version),
			logging.String(logging.FieldEventType, "tool_ready"),
		)
	} else {
		logging.WarnWithContext(e.logger, "tool not ready", "tool_unavailable",
			logging.String("detail", ready.Detail),
			logging.String(logging.FieldErrorHint, "install the tool or set tool.path, then run 'docbatch detect'"),
			logging.String(logging.FieldImpact, "batches cannot start"),
		)
	}
	return ready
}

// LastReadiness returns the most recent readiness result, if any.
func (e *Engine) LastReadiness() (preflight.Readiness, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readiness == nil {
		return preflight.Readiness{}, false
	}
	return *e.readiness, true
}

// Jobs returns a snapshot of the queue in insertion order.
func (e *Engine) Jobs() []queue.Job {
	return e.queue.Jobs()
}

// Job returns one job by input path.
func (e *Engine) Job(inputPath string) (queue.Job, bool) {
	return e.queue.Get(inputPath)
}

// Stats returns the current queue statistics.
func (e *Engine) Stats() queue.Stats {
	return e.queue.Stats()
}

// ActiveBatch returns the running batch, or nil.
func (e *Engine) ActiveBatch() *Batch {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.batch
}

// Pause holds back jobs that have not started. It reports whether the state
// changed.
func (e *Engine) Pause() bool {
	if !e.gate.pause() {
		return false
	}
	e.logger.Info("queue paused", logging.String(logging.FieldEventType, "queue_paused"))
	return true
}

// Resume releases every unit waiting on the pause gate.
func (e *Engine) Resume() bool {
	if !e.gate.resume() {
		return false
	}
	e.logger.Info("queue resumed", logging.String(logging.FieldEventType, "queue_resumed"))
	return true
}

// Paused reports whether the pause gate is closed.
func (e *Engine) Paused() bool {
	return e.gate.isPaused()
}

// Cancel cancels the active batch. It reports whether a batch was running.
func (e *Engine) Cancel() bool {
	b := e.ActiveBatch()
	if b == nil {
		return false
	}
	e.logger.Info("batch cancel requested",
		logging.String(logging.FieldBatchID, b.ID),
		logging.String(logging.FieldEventType, "batch_cancel_requested"),
	)
	b.cancel()
	return true
}

// RetryFailed moves failed jobs back to pending with their messages cleared.
// Jobs retried while a batch is cancelling stay pending; that batch does not
// pick them up.
func (e *Engine) RetryFailed() int {
	retried := e.queue.RetryFailed()
	if len(retried) == 0 {
		return 0
	}
	e.mu.Lock()
	outputFor := formats.NewResolver(e.cfg).OutputPathFunc()
	e.mu.Unlock()
	e.queue.RecomputePending(outputFor)

	e.logger.Info("failed jobs reset to pending",
		logging.Int("count", len(retried)),
		logging.String(logging.FieldEventType, "jobs_retried"),
	)
	e.publish()
	return len(retried)
}

// ClearCompleted removes every succeeded, failed and skipped job.
func (e *Engine) ClearCompleted() int {
	removed := e.queue.ClearCompleted()
	if removed > 0 {
		e.publish()
	}
	return removed
}
