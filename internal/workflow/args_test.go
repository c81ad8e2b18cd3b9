package workflow_test

import (
	"slices"
	"testing"

	"docbatch/internal/config"
	"docbatch/internal/queue"
	"docbatch/internal/workflow"
)

func TestBuildArgumentsOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Conversion.InputFormat = "markdown"
	cfg.Conversion.OutputFormat = "html"
	cfg.Conversion.AdditionalArgs = `--toc --metadata title="My Doc"`
	cfg.Conversion.TemplatePath = "/t/global.html"
	cfg.Formats = map[string]config.FormatOverride{
		"html": {Args: "--standalone", Template: "/t/html.html"},
	}

	got := workflow.BuildArguments(&cfg, "/in/a.md", "/out/a.html")
	want := []string{
		"-f", "markdown",
		"-t", "html",
		"--template", "/t/html.html",
		"--toc", "--metadata", "title=My Doc", "--standalone",
		"-o", "/out/a.html",
		"/in/a.md",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("BuildArguments = %q\nwant %q", got, want)
	}
}

func TestBuildArgumentsAutoInputAndGlobalTemplate(t *testing.T) {
	cfg := config.Default()
	cfg.Conversion.InputFormat = "AUTO"
	cfg.Conversion.OutputFormat = "docx"
	cfg.Conversion.TemplatePath = "/t/ref.docx"

	got := workflow.BuildArguments(&cfg, "/in/a.md", "/out/a.docx")
	want := []string{"-t", "docx", "--template", "/t/ref.docx", "-o", "/out/a.docx", "/in/a.md"}
	if !slices.Equal(got, want) {
		t.Fatalf("BuildArguments = %q, want %q", got, want)
	}

	cfg.Conversion.InputFormat = ""
	cfg.Conversion.OutputFormat = ""
	cfg.Conversion.TemplatePath = ""
	got = workflow.BuildArguments(&cfg, "/in/a.md", "/out/a")
	want = []string{"-o", "/out/a", "/in/a.md"}
	if !slices.Equal(got, want) {
		t.Fatalf("BuildArguments = %q, want %q", got, want)
	}
}

func TestFailureMessage(t *testing.T) {
	cases := map[string]string{
		"":                                "conversion failed",
		"   \n\t\n":                       "conversion failed",
		"\n  pandoc: file not found  \nx": "pandoc: file not found",
		"only line":                       "only line",
	}
	for in, want := range cases {
		if got := workflow.FailureMessage(in); got != want {
			t.Fatalf("FailureMessage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusLine(t *testing.T) {
	cfg := config.Default()
	cfg.Conversion.OutputFormat = "pdf"
	cfg.Conversion.OutputDir = ""

	got := workflow.StatusLine(queue.Stats{Total: 3}, &cfg, true)
	want := "3 files queued · output format pdf · output directory not set · tool ready"
	if got != want {
		t.Fatalf("StatusLine = %q, want %q", got, want)
	}

	cfg.Conversion.OutputFormat = ""
	cfg.Conversion.OutputDir = "/out"
	got = workflow.StatusLine(queue.Stats{}, &cfg, false)
	want = "no files queued · output format not selected · output directory set · tool not ready"
	if got != want {
		t.Fatalf("StatusLine = %q, want %q", got, want)
	}
}
