package preflight

import (
	"docbatch/internal/config"
	"docbatch/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks that apply to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Conversion.OutputDir != "" {
		results = append(results, CheckDirectoryAccess("Output directory", cfg.Conversion.OutputDir))
	}
	if cfg.Conversion.TemplatePath != "" {
		results = append(results, CheckReadableFile("Template", cfg.Conversion.TemplatePath))
	}

	return results
}

// CheckEngines reports which PDF engines are installed. Only relevant when
// the selected output format renders PDF.
func CheckEngines(cfg *config.Config) []deps.Status {
	if cfg == nil || !isPDFOutput(cfg) {
		return nil
	}
	return deps.CheckBinaries(deps.PDFEngines())
}

func isPDFOutput(cfg *config.Config) bool {
	return cfg.Conversion.OutputFormat == "pdf" || cfg.Conversion.OutputExtension == "pdf"
}
