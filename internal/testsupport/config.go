package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"docbatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOutputDir sets the global output directory.
func WithOutputDir(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.OutputDir = dir
	}
}

// WithParallelism sets the configured batch parallelism.
func WithParallelism(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Conversion.MaxParallelism = n
	}
}

// WithStubbedTool writes a shell stub named after the configured tool into a
// private bin directory, points tool.path at it, and returns its location
// through cfg.Tool.Path. The body runs under /bin/sh; tests using it skip on
// Windows.
func WithStubbedTool(body string) ConfigOption {
	return func(b *configBuilder) {
		SkipOnWindows(b.t)
		binDir := filepath.Join(b.baseDir, "bin")
		b.cfg.Tool.Path = WriteStubTool(b.t, binDir, b.cfg.ToolName(), body)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

// SkipOnWindows skips tests that depend on /bin/sh stubs.
func SkipOnWindows(t testing.TB) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
}

// PrependPath puts dir first on PATH for the duration of the test.
func PrependPath(t testing.TB, dir string) {
	t.Helper()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}
