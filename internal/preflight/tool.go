package preflight

import (
	"context"
	"fmt"

	"docbatch/internal/deps"
	"docbatch/internal/services/pandoc"
)

// Detector locates the tool executable.
type Detector interface {
	Resolve(ctx context.Context, preferred string) deps.DetectionResult
}

// Prober queries a located executable.
type Prober interface {
	VersionInfo(ctx context.Context, executable string) (*pandoc.VersionInfo, bool)
	ListFormats(ctx context.Context, executable string, kind pandoc.FormatKind) []string
}

// Readiness is the combined detection, version and format-list outcome.
type Readiness struct {
	Detection     deps.DetectionResult
	Version       *pandoc.VersionInfo
	InputFormats  []string
	OutputFormats []string
	Ready         bool
	Detail        string
}

// Result renders the readiness as a status row.
func (r Readiness) Result(name string) Result {
	return Result{Name: name, Passed: r.Ready, Detail: r.Detail}
}

// CheckTool detects the executable, queries its version, and lists its
// formats. The tool is ready only when it was found and answered --version;
// empty format lists do not block readiness.
func CheckTool(ctx context.Context, detector Detector, prober Prober, preferred string) Readiness {
	detection := detector.Resolve(ctx, preferred)
	out := Readiness{
		Detection:     detection,
		InputFormats:  []string{},
		OutputFormats: []string{},
	}
	if !detection.Found() {
		out.Detail = "executable not found"
		return out
	}

	version, ok := prober.VersionInfo(ctx, detection.Path)
	if !ok {
		out.Detail = fmt.Sprintf("%s (error: version query failed)", detection.Path)
		return out
	}
	out.Version = version
	out.InputFormats = prober.ListFormats(ctx, detection.Path, pandoc.InputFormats)
	out.OutputFormats = prober.ListFormats(ctx, detection.Path, pandoc.OutputFormats)
	out.Ready = true

	label := version.Version
	if label == "" {
		label = version.Line
	}
	out.Detail = fmt.Sprintf("%s %s (%d input, %d output formats)",
		detection.Path, label, len(out.InputFormats), len(out.OutputFormats))
	return out
}
