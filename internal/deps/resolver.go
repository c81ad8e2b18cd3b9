package deps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"docbatch/internal/logging"
	"docbatch/internal/textutil"
)

const defaultLookupTimeout = 2 * time.Second

// Source records which cascade step produced a detection result.
type Source string

const (
	SourceNone         Source = "none"
	SourcePreferred    Source = "preferred"
	SourceSaved        Source = "saved"
	SourceWhereCommand Source = "where"
	SourcePathScan     Source = "path"
)

// DetectionResult is the outcome of one Resolve call.
type DetectionResult struct {
	Path   string
	Source Source
	Trace  []string
}

// Found reports whether a binary was located.
func (r DetectionResult) Found() bool {
	return r.Source != SourceNone && r.Path != ""
}

// SavedPathFunc returns the last persisted tool location, or "".
type SavedPathFunc func() string

// Option configures a Resolver.
type Option func(*Resolver)

// WithSavedPath injects the accessor for the persisted location.
func WithSavedPath(fn SavedPathFunc) Option {
	return func(r *Resolver) {
		r.savedPath = fn
	}
}

// WithLookupTimeout overrides the OS lookup command timeout.
func WithLookupTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.lookupTimeout = d
		}
	}
}

// WithLookupCommand replaces the OS lookup command. The tool name is appended
// as the final argument.
func WithLookupCommand(name string, args ...string) Option {
	return func(r *Resolver) {
		if strings.TrimSpace(name) != "" {
			r.lookupCmd = append([]string{name}, args...)
		}
	}
}

// Resolver finds the conversion tool binary.
type Resolver struct {
	toolName      string
	logger        *slog.Logger
	savedPath     SavedPathFunc
	lookupCmd     []string
	lookupTimeout time.Duration
	exeSuffix     string
}

// NewResolver constructs a resolver for the named tool.
func NewResolver(toolName string, logger *slog.Logger, opts ...Option) *Resolver {
	toolName = strings.TrimSpace(toolName)
	if toolName == "" {
		toolName = "pandoc"
	}
	r := &Resolver{
		toolName:      toolName,
		logger:        logging.NewComponentLogger(logger, "resolver"),
		lookupCmd:     defaultLookupCommand(),
		lookupTimeout: defaultLookupTimeout,
		exeSuffix:     executableSuffix(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the detection cascade and stops at the first hit. Subprocess
// failures become trace lines; Resolve itself never fails.
func (r *Resolver) Resolve(ctx context.Context, preferred string) DetectionResult {
	result := DetectionResult{Source: SourceNone}
	trace := func(format string, args ...any) {
		line := fmt.Sprintf(format, args...)
		result.Trace = append(result.Trace, line)
		r.logger.Debug("detection step", logging.String("step", line))
	}
	hit := func(path string, source Source) DetectionResult {
		result.Path = path
		result.Source = source
		r.logger.Info("tool located",
			logging.String("path", path),
			logging.String("source", string(source)),
			logging.String(logging.FieldEventType, "tool_detected"),
		)
		return result
	}

	preferred = strings.TrimSpace(preferred)
	switch {
	case preferred == "":
		trace("preferred path: not set")
	case isRegularFile(preferred):
		trace("preferred path: found %s", preferred)
		return hit(preferred, SourcePreferred)
	default:
		trace("preferred path: %s does not exist", preferred)
	}

	saved := ""
	if r.savedPath != nil {
		saved = strings.TrimSpace(r.savedPath())
	}
	switch {
	case saved == "":
		trace("saved path: not set")
	case isRegularFile(saved):
		trace("saved path: found %s", saved)
		return hit(saved, SourceSaved)
	default:
		trace("saved path: %s does not exist", saved)
	}

	if path, ok := r.lookupCommand(ctx, trace); ok {
		return hit(path, SourceWhereCommand)
	}

	if path, ok := r.scanPath(trace); ok {
		return hit(path, SourcePathScan)
	}

	trace("%s not found", r.toolName)
	logging.WarnWithContext(r.logger, "tool not found", "tool_missing",
		logging.String("tool", r.toolName),
		logging.String(logging.FieldErrorHint, "install the tool or set tool.path"),
		logging.String(logging.FieldImpact, "conversions cannot start"),
	)
	return result
}

func (r *Resolver) lookupCommand(ctx context.Context, trace func(string, ...any)) (string, bool) {
	if len(r.lookupCmd) == 0 {
		return "", false
	}
	label := strings.Join(append(append([]string(nil), r.lookupCmd...), r.toolName), " ")

	lookupCtx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	args := append(append([]string(nil), r.lookupCmd[1:]...), r.toolName)
	cmd := exec.CommandContext(lookupCtx, r.lookupCmd[0], args...) //nolint:gosec
	cmd.WaitDelay = r.lookupTimeout
	output, err := cmd.Output()
	switch {
	case errors.Is(lookupCtx.Err(), context.DeadlineExceeded):
		trace("%s: timed out after %s", label, r.lookupTimeout)
		return "", false
	case lookupCtx.Err() != nil:
		trace("%s: cancelled", label)
		return "", false
	case err != nil && len(output) == 0:
		trace("%s: %v", label, err)
		return "", false
	}

	for _, line := range textutil.Lines(string(output)) {
		candidate := strings.Trim(line, `"`)
		if candidate == "" {
			continue
		}
		for _, path := range r.candidates(candidate) {
			if isRegularFile(path) {
				trace("%s: found %s", label, path)
				return path, true
			}
		}
	}
	trace("%s: no usable result", label)
	return "", false
}

func (r *Resolver) candidates(line string) []string {
	if filepath.Ext(line) == "" && r.exeSuffix != "" {
		return []string{line + r.exeSuffix, line}
	}
	return []string{line}
}

func (r *Resolver) scanPath(trace func(string, ...any)) (string, bool) {
	names := []string{r.toolName + ".exe", r.toolName}
	skipped := 0
	defer func() {
		if skipped > 0 {
			trace("PATH scan: skipped %d network location(s)", skipped)
		}
	}()

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		dir = strings.Trim(strings.TrimSpace(dir), `"`)
		if dir == "" {
			continue
		}
		if strings.HasPrefix(dir, `\\`) {
			skipped++
			continue
		}
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if isRegularFile(candidate) {
				trace("PATH scan: found %s", candidate)
				return candidate, true
			}
		}
	}
	trace("PATH scan: no match")
	return "", false
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func defaultLookupCommand() []string {
	if runtime.GOOS == "windows" {
		return []string{"where"}
	}
	return []string{"which", "-a"}
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
