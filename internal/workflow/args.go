package workflow

import (
	"strings"

	"docbatch/internal/config"
	"docbatch/internal/formats"
	"docbatch/internal/textutil"
)

// BuildArguments assembles the tool argument vector for one job:
//
//	[-f <input format>] [-t <output format>] [--template <path>]
//	<global args> <format override args> -o <output> <input>
//
// The input format is omitted when blank or "auto". The template and args
// come from the output format's effective settings.
func BuildArguments(cfg *config.Config, inputPath, outputPath string) []string {
	conv := cfg.Conversion
	args := make([]string, 0, 8)

	if in := strings.TrimSpace(conv.InputFormat); in != "" && !textutil.EqualFold(in, config.AutoInputFormat) {
		args = append(args, "-f", in)
	}

	eff := formats.NewResolver(cfg).Resolve(conv.OutputFormat)
	if eff.Format != "" {
		args = append(args, "-t", eff.Format)
	}
	if eff.TemplatePath != "" {
		args = append(args, "--template", eff.TemplatePath)
	}
	args = append(args, eff.ExtraArgs...)
	args = append(args, "-o", outputPath, inputPath)
	return args
}

// FailureMessage picks the message recorded on a failed job: the first
// non-blank stderr line, or a generic message.
func FailureMessage(stderr string) string {
	if line := textutil.FirstLine(stderr); line != "" {
		return line
	}
	return messageFailed
}
