package workflow

import (
	"fmt"
	"strings"

	"docbatch/internal/config"
	"docbatch/internal/queue"
)

// StatusLine summarizes what is set up for the next batch.
func StatusLine(stats queue.Stats, cfg *config.Config, ready bool) string {
	parts := make([]string, 0, 4)

	switch stats.Total {
	case 0:
		parts = append(parts, "no files queued")
	case 1:
		parts = append(parts, "1 file queued")
	default:
		parts = append(parts, fmt.Sprintf("%d files queued", stats.Total))
	}

	if cfg == nil || strings.TrimSpace(cfg.Conversion.OutputFormat) == "" {
		parts = append(parts, "output format not selected")
	} else {
		parts = append(parts, "output format "+cfg.Conversion.OutputFormat)
	}

	if cfg == nil || strings.TrimSpace(cfg.Conversion.OutputDir) == "" {
		parts = append(parts, "output directory not set")
	} else {
		parts = append(parts, "output directory set")
	}

	if ready {
		parts = append(parts, "tool ready")
	} else {
		parts = append(parts, "tool not ready")
	}
	return strings.Join(parts, " · ")
}
