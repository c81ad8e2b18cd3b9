package pandoc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"docbatch/internal/logging"
	"docbatch/internal/services"
	"docbatch/internal/textutil"
)

const (
	defaultVersionTimeout = 5 * time.Second
	defaultListTimeout    = 8 * time.Second
	maxLineBytes          = 4 * 1024 * 1024
)

// FormatKind selects which format list the tool reports.
type FormatKind string

const (
	InputFormats  FormatKind = "input"
	OutputFormats FormatKind = "output"
)

func (k FormatKind) flag() string {
	if k == InputFormats {
		return "--list-input-formats"
	}
	return "--list-output-formats"
}

// RunResult is the outcome of one completed tool invocation.
type RunResult struct {
	Succeeded bool
	Stdout    string
	Stderr    string
	ExitCode  int
	Duration  time.Duration
}

// VersionInfo describes a tool binary that answered a version query.
type VersionInfo struct {
	Path    string
	Version string
	Line    string
}

// Option configures the runner.
type Option func(*Runner)

// WithVersionTimeout overrides the version query timeout (primarily for tests).
func WithVersionTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.versionTimeout = d
		}
	}
}

// WithListTimeout overrides the format list timeout (primarily for tests).
func WithListTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.listTimeout = d
		}
	}
}

// WithStderrLines registers a callback receiving each stderr line as it arrives.
func WithStderrLines(fn func(string)) Option {
	return func(r *Runner) {
		r.onStderr = fn
	}
}

// Runner wraps conversion tool invocations.
type Runner struct {
	toolName       string
	logger         *slog.Logger
	versionTimeout time.Duration
	listTimeout    time.Duration
	onStderr       func(string)
}

// NewRunner constructs a runner for the named tool. The name is only used to
// strip the tool's own name from its version banner and to label log lines.
func NewRunner(toolName string, logger *slog.Logger, opts ...Option) *Runner {
	toolName = strings.TrimSpace(toolName)
	if toolName == "" {
		toolName = "pandoc"
	}
	r := &Runner{
		toolName:       toolName,
		logger:         logging.NewComponentLogger(logger, "runner"),
		versionTimeout: defaultVersionTimeout,
		listTimeout:    defaultListTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ToolName returns the configured tool name.
func (r *Runner) ToolName() string {
	return r.toolName
}

// Run executes the tool and waits for it to exit. A non-zero exit is reported
// through RunResult; the returned error is non-nil only when the process could
// not be launched or ctx ended first.
func (r *Runner) Run(ctx context.Context, executable string, args []string) (RunResult, error) {
	if err := ctx.Err(); err != nil {
		return RunResult{}, err
	}
	if strings.TrimSpace(executable) == "" {
		return RunResult{}, services.Wrap(services.ErrLaunch, r.toolName, "run", "executable path is empty", nil)
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec
	configureProcessTree(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return RunResult{}, services.Wrap(services.ErrLaunch, r.toolName, "run", "stdout pipe", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return RunResult{}, services.Wrap(services.ErrLaunch, r.toolName, "run", "stderr pipe", err)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return RunResult{}, services.Wrap(services.ErrLaunch, r.toolName, "run", "start process", err)
	}
	r.logger.Debug("tool started",
		logging.String("executable", executable),
		logging.Int("pid", cmd.Process.Pid),
		logging.String("args", strings.Join(args, " ")),
	)

	var (
		wg        sync.WaitGroup
		outBuf    bytes.Buffer
		errBuf    bytes.Buffer
		scanErr   error
		errOnce   sync.Once
		recordErr = func(err error) { errOnce.Do(func() { scanErr = err }) }
	)
	capture := func(src io.Reader, dst *bytes.Buffer, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(src)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := scanner.Text()
			dst.WriteString(line)
			dst.WriteByte('\n')
			if forward != nil {
				forward(line)
			}
		}
		if err := scanner.Err(); err != nil {
			recordErr(err)
			_, _ = io.Copy(io.Discard, src)
		}
	}

	wg.Add(2)
	go capture(stdout, &outBuf, nil)
	go capture(stderr, &errBuf, r.onStderr)
	wg.Wait()

	waitErr := cmd.Wait()
	result := RunResult{
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		r.logger.Debug("tool cancelled", logging.String("executable", executable), logging.Duration("duration", result.Duration))
		return result, ctxErr
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return result, services.Wrap(services.ErrExternalTool, r.toolName, "run", "wait for process", waitErr)
		}
	}
	if scanErr != nil {
		r.logger.Debug("tool output truncated", logging.Error(scanErr))
	}

	result.Succeeded = result.ExitCode == 0
	r.logger.Debug("tool exited",
		logging.String("executable", executable),
		logging.Int("exit_code", result.ExitCode),
		logging.Duration("duration", result.Duration),
	)
	return result, nil
}

// VersionInfo asks the binary for its version. The second result is false when
// the file is missing, the query fails or times out, or prints nothing.
func (r *Runner) VersionInfo(ctx context.Context, executable string) (*VersionInfo, bool) {
	if !isRegularFile(executable) {
		return nil, false
	}
	queryCtx, cancel := context.WithTimeout(ctx, r.versionTimeout)
	defer cancel()

	result, err := r.Run(queryCtx, executable, []string{"--version"})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = services.Wrap(services.ErrTimeout, r.toolName, "version", fmt.Sprintf("no answer within %s", r.versionTimeout), err)
		}
		r.logger.Debug("version query failed", logging.String("executable", executable), logging.Error(err))
		return nil, false
	}
	if !result.Succeeded {
		return nil, false
	}
	line := textutil.FirstLine(result.Stdout)
	if line == "" {
		return nil, false
	}
	return &VersionInfo{
		Path:    executable,
		Version: r.stripToolName(line),
		Line:    line,
	}, true
}

// ListFormats returns the formats the tool supports for kind, sorted
// case-insensitively. Any failure yields an empty list.
func (r *Runner) ListFormats(ctx context.Context, executable string, kind FormatKind) []string {
	queryCtx, cancel := context.WithTimeout(ctx, r.listTimeout)
	defer cancel()

	result, err := r.Run(queryCtx, executable, []string{kind.flag()})
	if err != nil || !result.Succeeded {
		return []string{}
	}
	formats := textutil.Lines(result.Stdout)
	slices.SortStableFunc(formats, textutil.CompareFold)
	return formats
}

func (r *Runner) stripToolName(line string) string {
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(r.toolName))
	return strings.TrimSpace(pattern.ReplaceAllString(line, ""))
}

func isRegularFile(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
