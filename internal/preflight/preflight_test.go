package preflight_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"docbatch/internal/deps"
	"docbatch/internal/preflight"
	"docbatch/internal/services/pandoc"
	"docbatch/internal/testsupport"
)

type fakeDetector struct {
	result    deps.DetectionResult
	preferred string
}

func (f *fakeDetector) Resolve(_ context.Context, preferred string) deps.DetectionResult {
	f.preferred = preferred
	return f.result
}

type fakeProber struct {
	version *pandoc.VersionInfo
	ok      bool
	formats map[pandoc.FormatKind][]string
	listed  int
}

func (f *fakeProber) VersionInfo(context.Context, string) (*pandoc.VersionInfo, bool) {
	return f.version, f.ok
}

func (f *fakeProber) ListFormats(_ context.Context, _ string, kind pandoc.FormatKind) []string {
	f.listed++
	return f.formats[kind]
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := preflight.CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	testsupport.WriteFile(t, f, "x")
	if preflight.CheckDirectoryAccess("test", f).Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "template.html")
	testsupport.WriteFile(t, f, "<html></html>")
	if r := preflight.CheckReadableFile("Template", f); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if preflight.CheckReadableFile("Template", dir).Passed {
		t.Fatal("expected failure for directory")
	}
	if preflight.CheckReadableFile("Template", filepath.Join(dir, "missing")).Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestRunAllCoversConfiguredPaths(t *testing.T) {
	out := t.TempDir()
	cfg := testsupport.NewConfig(t, testsupport.WithOutputDir(out))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	cfg.Conversion.TemplatePath = filepath.Join(out, "missing.tex")

	results := preflight.RunAll(cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %+v", len(results), results)
	}
	for _, r := range results[:3] {
		if !r.Passed {
			t.Fatalf("expected %s to pass: %s", r.Name, r.Detail)
		}
	}
	if results[3].Passed {
		t.Fatal("expected missing template to fail")
	}
	if preflight.RunAll(nil) != nil {
		t.Fatal("expected nil for nil config")
	}
}

func TestCheckEnginesOnlyForPDF(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Conversion.OutputFormat = "docx"
	if got := preflight.CheckEngines(cfg); got != nil {
		t.Fatalf("expected no engine checks for docx, got %+v", got)
	}
	cfg.Conversion.OutputFormat = "pdf"
	got := preflight.CheckEngines(cfg)
	if len(got) != len(deps.PDFEngines()) {
		t.Fatalf("expected %d engine statuses, got %d", len(deps.PDFEngines()), len(got))
	}
	for _, s := range got {
		if !s.Optional {
			t.Fatalf("engine %s should be optional", s.Name)
		}
	}
}

func TestCheckToolNotFound(t *testing.T) {
	detector := &fakeDetector{result: deps.DetectionResult{Source: deps.SourceNone}}
	prober := &fakeProber{}

	r := preflight.CheckTool(context.Background(), detector, prober, "/opt/pandoc")
	if r.Ready {
		t.Fatal("expected not ready")
	}
	if detector.preferred != "/opt/pandoc" {
		t.Fatalf("preferred path not forwarded: %q", detector.preferred)
	}
	if prober.listed != 0 {
		t.Fatal("formats should not be listed without an executable")
	}
	if r.InputFormats == nil || r.OutputFormats == nil {
		t.Fatal("format lists should be empty, not nil")
	}
}

func TestCheckToolVersionFailureIsNotReady(t *testing.T) {
	detector := &fakeDetector{result: deps.DetectionResult{Path: "/bin/pandoc", Source: deps.SourcePathScan}}
	prober := &fakeProber{ok: false}

	r := preflight.CheckTool(context.Background(), detector, prober, "")
	if r.Ready {
		t.Fatal("expected not ready when version query fails")
	}
	if r.Detection.Path != "/bin/pandoc" {
		t.Fatalf("detection not retained: %+v", r.Detection)
	}
	if !strings.Contains(r.Detail, "version") {
		t.Fatalf("unexpected detail %q", r.Detail)
	}
}

func TestCheckToolReady(t *testing.T) {
	detector := &fakeDetector{result: deps.DetectionResult{Path: "/bin/pandoc", Source: deps.SourcePreferred}}
	prober := &fakeProber{
		ok:      true,
		version: &pandoc.VersionInfo{Path: "/bin/pandoc", Version: "3.1.9", Line: "pandoc 3.1.9"},
		formats: map[pandoc.FormatKind][]string{
			pandoc.InputFormats:  {"markdown", "rst"},
			pandoc.OutputFormats: {},
		},
	}

	r := preflight.CheckTool(context.Background(), detector, prober, "")
	if !r.Ready {
		t.Fatalf("expected ready, got %s", r.Detail)
	}
	if len(r.InputFormats) != 2 || len(r.OutputFormats) != 0 {
		t.Fatalf("unexpected formats %v / %v", r.InputFormats, r.OutputFormats)
	}
	if !strings.Contains(r.Detail, "3.1.9") {
		t.Fatalf("detail should mention version: %q", r.Detail)
	}
	if res := r.Result("Tool"); !res.Passed || res.Name != "Tool" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCheckToolWithStubExecutable(t *testing.T) {
	testsupport.SkipOnWindows(t)
	dir := t.TempDir()
	tool := testsupport.WriteStubTool(t, dir, "pandoc", `case "$1" in
--version) echo "pandoc 3.2" ;;
--list-input-formats) printf 'rst\nMarkdown\n' ;;
--list-output-formats) printf 'html\n' ;;
esac`)
	t.Setenv("PATH", dir)

	resolver := deps.NewResolver("pandoc", nil)
	runner := pandoc.NewRunner("pandoc", nil)
	r := preflight.CheckTool(context.Background(), resolver, runner, tool)
	if !r.Ready {
		t.Fatalf("expected ready, got %s", r.Detail)
	}
	if r.Version.Version != "3.2" {
		t.Fatalf("version = %q", r.Version.Version)
	}
	if strings.Join(r.InputFormats, ",") != "Markdown,rst" {
		t.Fatalf("input formats = %v", r.InputFormats)
	}
}
