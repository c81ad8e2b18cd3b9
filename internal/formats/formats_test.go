package formats_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"docbatch/internal/config"
	"docbatch/internal/formats"
)

func newConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func TestResolveWithoutOverrideUsesGlobals(t *testing.T) {
	cfg := newConfig()
	cfg.Conversion.OutputExtension = ""
	cfg.Conversion.AdditionalArgs = `--standalone --metadata title="Q3 Report"`
	cfg.Conversion.TemplatePath = "/tmpl/base.latex"

	eff := formats.NewResolver(cfg).Resolve("pdf")
	if eff.Extension != "pdf" {
		t.Fatalf("expected extension to fall back to format name, got %q", eff.Extension)
	}
	if want := []string{"--standalone", "--metadata", "title=Q3 Report"}; !reflect.DeepEqual(eff.ExtraArgs, want) {
		t.Fatalf("unexpected args %q want %q", eff.ExtraArgs, want)
	}
	if eff.TemplatePath != "/tmpl/base.latex" {
		t.Fatalf("unexpected template %q", eff.TemplatePath)
	}
}

func TestResolveLayersOverride(t *testing.T) {
	cfg := newConfig()
	cfg.Conversion.OutputExtension = "docx"
	cfg.Conversion.AdditionalArgs = "--standalone"
	cfg.Conversion.TemplatePath = "/tmpl/global"
	r := formats.NewResolver(cfg)

	if !r.Save("PDF", ".pdf", " --toc ", "/tmpl/pdf.latex") {
		t.Fatal("expected override to be stored")
	}
	eff := r.Resolve("pdf")
	if eff.Extension != "pdf" {
		t.Fatalf("expected override extension, got %q", eff.Extension)
	}
	if want := []string{"--standalone", "--toc"}; !reflect.DeepEqual(eff.ExtraArgs, want) {
		t.Fatalf("expected global args then override args, got %q", eff.ExtraArgs)
	}
	if eff.TemplatePath != "/tmpl/pdf.latex" {
		t.Fatalf("expected override template to replace global, got %q", eff.TemplatePath)
	}

	other := r.Resolve("html")
	if other.Extension != "docx" || other.TemplatePath != "/tmpl/global" {
		t.Fatalf("override leaked into another format: %+v", other)
	}
}

func TestSaveBlankRemovesOverride(t *testing.T) {
	cfg := newConfig()
	r := formats.NewResolver(cfg)
	r.Save("html", "htm", "", "")
	if _, ok := r.Override("HTML"); !ok {
		t.Fatal("expected case-insensitive lookup to find override")
	}
	if r.Save("html", "  ", "", " ") {
		t.Fatal("expected all-blank save to report no override")
	}
	if _, ok := r.Override("html"); ok {
		t.Fatal("expected all-blank save to remove override")
	}
	if cfg.Formats != nil {
		t.Fatalf("expected empty overrides to be pruned, got %+v", cfg.Formats)
	}
}

func TestClearAndOverridesListing(t *testing.T) {
	cfg := newConfig()
	r := formats.NewResolver(cfg)
	r.Save("pdf", "", "--toc", "")
	r.Save("Docx", "", "", "/ref.docx")
	r.Save("html", "xhtml", "", "")

	var names []string
	for _, o := range r.Overrides() {
		names = append(names, o.Format)
	}
	if want := []string{"docx", "html", "pdf"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("unexpected override order %q", names)
	}
	if !r.Clear("PDF") {
		t.Fatal("expected clear to remove pdf override")
	}
	if r.Clear("pdf") {
		t.Fatal("expected second clear to report nothing removed")
	}
}

func TestBuildOutputPath(t *testing.T) {
	cases := []struct {
		name, input, dir, ext, want string
	}{
		{"explicit dir", "/docs/report.md", "/out", "pdf", filepath.Join("/out", "report.pdf")},
		{"blank dir uses input dir", "/docs/report.md", "  ", "pdf", filepath.Join("/docs", "report.pdf")},
		{"leading dots stripped", "/docs/report.md", "/out", "..docx", filepath.Join("/out", "report.docx")},
		{"multi dot stem", "/docs/v1.2.notes.md", "/out", "html", filepath.Join("/out", "v1.2.notes.html")},
		{"no input extension", "/docs/README", "", "txt", filepath.Join("/docs", "README.txt")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formats.BuildOutputPath(tc.input, tc.dir, tc.ext); got != tc.want {
				t.Fatalf("BuildOutputPath(%q, %q, %q) = %q, want %q", tc.input, tc.dir, tc.ext, got, tc.want)
			}
		})
	}
}

func TestOutputPathFuncUsesSelectedFormat(t *testing.T) {
	cfg := newConfig()
	cfg.Conversion.OutputFormat = "markdown"
	cfg.Conversion.OutputExtension = "markdown"
	cfg.Conversion.OutputDir = "/out"
	r := formats.NewResolver(cfg)
	r.Save("markdown", "md", "", "")

	if got := r.OutputPathFunc()("/docs/a.docx"); got != filepath.Join("/out", "a.md") {
		t.Fatalf("unexpected output path %q", got)
	}
}

func TestSelectOutputFormatExtensionFollows(t *testing.T) {
	cfg := newConfig()
	cfg.Conversion.OutputFormat = "docx"
	cfg.Conversion.OutputExtension = "DOCX"

	formats.SelectOutputFormat(cfg, "pdf")
	if cfg.Conversion.OutputExtension != "pdf" {
		t.Fatalf("expected extension to follow format, got %q", cfg.Conversion.OutputExtension)
	}

	cfg.Conversion.OutputExtension = "tex"
	formats.SelectOutputFormat(cfg, "latex")
	if cfg.Conversion.OutputExtension != "tex" || cfg.Conversion.OutputFormat != "latex" {
		t.Fatalf("custom extension must be kept: %+v", cfg.Conversion)
	}

	cfg.Conversion.OutputExtension = ""
	formats.SelectOutputFormat(cfg, "html")
	if cfg.Conversion.OutputExtension != "html" {
		t.Fatalf("blank extension should adopt the format, got %q", cfg.Conversion.OutputExtension)
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := newConfig()
	cfg.Conversion.AdditionalArgs = "--old"
	cfg.Conversion.TemplatePath = "/keep.latex"

	preset, err := formats.FindPreset(cfg, "pdf with toc")
	if err != nil {
		t.Fatalf("FindPreset: %v", err)
	}
	formats.Apply(cfg, preset)
	if cfg.Conversion.OutputFormat != "pdf" || cfg.Conversion.OutputExtension != "pdf" {
		t.Fatalf("unexpected format settings %+v", cfg.Conversion)
	}
	if cfg.Conversion.AdditionalArgs != "--toc --toc-depth=3" {
		t.Fatalf("args must always be replaced, got %q", cfg.Conversion.AdditionalArgs)
	}
	if cfg.Conversion.TemplatePath != "/keep.latex" {
		t.Fatalf("blank preset template must keep current template, got %q", cfg.Conversion.TemplatePath)
	}

	formats.Apply(cfg, formats.Preset{Name: "plain"})
	if cfg.Conversion.AdditionalArgs != "" {
		t.Fatalf("blank preset args must clear args, got %q", cfg.Conversion.AdditionalArgs)
	}
}

func TestCustomPresetLifecycle(t *testing.T) {
	cfg := newConfig()
	cfg.Conversion.OutputFormat = "revealjs"
	cfg.Conversion.OutputExtension = "html"
	cfg.Conversion.AdditionalArgs = "--standalone"

	if _, err := formats.SavePreset(cfg, "html"); !errors.Is(err, formats.ErrBuiltInPreset) {
		t.Fatalf("expected built-in name to be rejected, got %v", err)
	}
	if _, err := formats.SavePreset(cfg, "Slides"); err != nil {
		t.Fatalf("SavePreset: %v", err)
	}
	cfg.Conversion.AdditionalArgs = "--standalone -V theme=night"
	if _, err := formats.SavePreset(cfg, "slides"); err != nil {
		t.Fatalf("SavePreset replace: %v", err)
	}
	if len(cfg.Presets) != 1 || cfg.Presets[0].Name != "Slides" || cfg.Presets[0].Args != "--standalone -V theme=night" {
		t.Fatalf("expected replaced preset keeping its name, got %+v", cfg.Presets)
	}

	all := formats.Presets(cfg)
	if len(all) != len(formats.BuiltInPresets())+1 || all[len(all)-1].BuiltIn {
		t.Fatalf("expected custom preset listed after built-ins, got %+v", all)
	}

	if err := formats.RemovePreset(cfg, "PDF"); !errors.Is(err, formats.ErrBuiltInPreset) {
		t.Fatalf("expected built-in removal to fail, got %v", err)
	}
	if err := formats.RemovePreset(cfg, "SLIDES"); err != nil {
		t.Fatalf("RemovePreset: %v", err)
	}
	if err := formats.RemovePreset(cfg, "slides"); !errors.Is(err, formats.ErrPresetNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
