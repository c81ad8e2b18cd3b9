package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"docbatch/internal/preflight"
	"docbatch/internal/queue"
	"docbatch/internal/services/pandoc"
	"docbatch/internal/workflow"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tool readiness, current settings and environment checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			runner := pandoc.NewRunner(cfg.ToolName(), logger)
			ready := preflight.CheckTool(cmd.Context(), ctx.newResolver(cfg, logger), runner, cfg.Tool.Path)

			lines := []string{renderSectionHeader("Tool", colorize)}
			lines = append(lines, renderStatusLine(cfg.ToolName(), checkKind(ready.Ready, false), ready.Detail, colorize))

			lines = append(lines, "", renderSectionHeader("Settings", colorize))
			lines = append(lines, statusIndent+workflow.StatusLine(queue.Stats{}, cfg, ready.Ready))
			conv := cfg.Conversion
			settings := [][2]string{
				{"config", configLabel(ctx)},
				{"input format", valueOrDash(conv.InputFormat)},
				{"output format", valueOrDash(conv.OutputFormat)},
				{"extension", valueOrDash(conv.OutputExtension)},
				{"output dir", valueOrDash(conv.OutputDir)},
				{"template", valueOrDash(conv.TemplatePath)},
				{"extra args", valueOrDash(conv.AdditionalArgs)},
				{"parallelism", strconv.Itoa(cfg.Parallelism())},
			}
			for _, kv := range settings {
				lines = append(lines, fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, kv[0]+":", kv[1]))
			}

			lines = append(lines, "", renderSectionHeader("Checks", colorize))
			for _, result := range preflight.RunAll(cfg) {
				lines = append(lines, renderStatusLine(result.Name, checkKind(result.Passed, false), result.Detail, colorize))
			}
			for _, engine := range preflight.CheckEngines(cfg) {
				detail := engine.Detail
				if detail == "" {
					detail = engine.Description
				}
				lines = append(lines, renderStatusLine(engine.Name, checkKind(engine.Available, engine.Optional), detail, colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func configLabel(ctx *commandContext) string {
	if ctx.configExists {
		return ctx.configPath
	}
	return ctx.configPath + " (not created; defaults in use)"
}
