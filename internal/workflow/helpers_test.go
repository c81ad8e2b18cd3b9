package workflow_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"docbatch/internal/config"
	"docbatch/internal/deps"
	"docbatch/internal/queue"
	"docbatch/internal/services/pandoc"
	"docbatch/internal/testsupport"
	"docbatch/internal/workflow"
)

const fakeToolPath = "/opt/tools/pandoc"

type fakeDetector struct {
	found bool
}

func (d fakeDetector) Resolve(context.Context, string) deps.DetectionResult {
	if !d.found {
		return deps.DetectionResult{Source: deps.SourceNone}
	}
	return deps.DetectionResult{Path: fakeToolPath, Source: deps.SourcePreferred}
}

// fakeRunner records calls and concurrency. behave decides each job's
// outcome; the default succeeds immediately.
type fakeRunner struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	calls       [][]string
	started     chan string
	behave      func(ctx context.Context, input string) (pandoc.RunResult, error)
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{started: make(chan string, 64)}
}

func (f *fakeRunner) Run(ctx context.Context, _ string, args []string) (pandoc.RunResult, error) {
	input := args[len(args)-1]
	f.mu.Lock()
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	f.calls = append(f.calls, append([]string(nil), args...))
	behave := f.behave
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	f.started <- input
	if behave != nil {
		return behave(ctx, input)
	}
	return pandoc.RunResult{Succeeded: true}, nil
}

func (f *fakeRunner) VersionInfo(_ context.Context, executable string) (*pandoc.VersionInfo, bool) {
	return &pandoc.VersionInfo{Path: executable, Version: "3.1", Line: "pandoc 3.1"}, true
}

func (f *fakeRunner) ListFormats(context.Context, string, pandoc.FormatKind) []string {
	return []string{}
}

func (f *fakeRunner) setBehavior(fn func(ctx context.Context, input string) (pandoc.RunResult, error)) {
	f.mu.Lock()
	f.behave = fn
	f.mu.Unlock()
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeRunner) peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// blockUntilCancelled simulates a long conversion that only ends when the
// batch is cancelled.
func blockUntilCancelled(ctx context.Context, _ string) (pandoc.RunResult, error) {
	<-ctx.Done()
	return pandoc.RunResult{}, ctx.Err()
}

func sleepFor(d time.Duration) func(context.Context, string) (pandoc.RunResult, error) {
	return func(ctx context.Context, _ string) (pandoc.RunResult, error) {
		select {
		case <-time.After(d):
			return pandoc.RunResult{Succeeded: true}, nil
		case <-ctx.Done():
			return pandoc.RunResult{}, ctx.Err()
		}
	}
}

type harness struct {
	cfg    *config.Config
	runner *fakeRunner
	engine *workflow.Engine
	inputs []string
}

func newHarness(t *testing.T, files ...string) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithOutputDir(filepath.Join(t.TempDir(), "out")))
	runner := newFakeRunner()
	engine := workflow.NewEngine(cfg, runner, fakeDetector{found: true}, nil)
	h := &harness{cfg: cfg, runner: runner, engine: engine}
	if len(files) > 0 {
		h.inputs = testsupport.WriteInputs(t, t.TempDir(), files...)
		for _, in := range h.inputs {
			if _, ok := engine.Enqueue(in); !ok {
				t.Fatalf("enqueue %s failed", in)
			}
		}
	}
	return h
}

func (h *harness) status(t *testing.T, input string) queue.Job {
	t.Helper()
	job, ok := h.engine.Job(input)
	if !ok {
		t.Fatalf("job %s missing", input)
	}
	return job
}

func waitStarted(t *testing.T, r *fakeRunner) string {
	t.Helper()
	select {
	case in := <-r.started:
		return in
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a conversion to start")
		return ""
	}
}

func waitBatch(t *testing.T, b *workflow.Batch) workflow.Summary {
	t.Helper()
	select {
	case <-b.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for batch")
	}
	return b.Wait()
}
