package main

import (
	"strings"
	"testing"

	"docbatch/internal/testsupport"
)

func TestDetectSavesLocation(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "detect", "--save")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	requireContains(t, out, "Found pandoc at "+env.cfg.Tool.Path+" (via preferred)")
	requireContains(t, out, "Version: 3.1.11")
	requireContains(t, out, "Saved tool location")

	if saved := env.reload(t).Tool.SavedPath; saved != env.cfg.Tool.Path {
		t.Fatalf("saved path = %q, want %q", saved, env.cfg.Tool.Path)
	}
}

func TestDetectMissingTool(t *testing.T) {
	testsupport.SkipOnWindows(t)
	env := setupCLITestEnv(t)
	cfg := env.reload(t)
	cfg.Tool.Path = ""
	if err := cfg.Save(env.configPath); err != nil {
		t.Fatalf("save: %v", err)
	}
	t.Setenv("PATH", t.TempDir())

	_, _, err := runCLI(t, env.configPath, "detect")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestFormatsListsToolFormats(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "formats", "--output")
	if err != nil {
		t.Fatalf("formats --output: %v", err)
	}
	if strings.TrimSpace(out) != "docx\nhtml\npdf" {
		t.Fatalf("unexpected output formats %q", out)
	}

	out, _, err = runCLI(t, env.configPath, "formats")
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	requireContains(t, out, "markdown")
	requireContains(t, out, "docx")
}

func TestStatusReportsReadinessAndChecks(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env.configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Tool ==")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "no files queued")
	requireContains(t, out, "output format docx")
	requireContains(t, out, "Data directory")
}
