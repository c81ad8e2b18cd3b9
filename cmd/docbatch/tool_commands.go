package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docbatch/internal/preflight"
	"docbatch/internal/services/pandoc"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Locate the conversion tool and show each lookup step",
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
			result := ctx.newResolver(cfg, logger).Resolve(cmd.Context(), cfg.Tool.Path)
			for _, line := range result.Trace {
				fmt.Fprintf(out, "  %s\n", line)
			}
			if !result.Found() {
				return fmt.Errorf("%s not found; install it or set tool.path in %s", cfg.ToolName(), ctx.configPath)
			}
			fmt.Fprintf(out, "Found %s at %s (via %s)\n", cfg.ToolName(), result.Path, result.Source)

			runner := pandoc.NewRunner(cfg.ToolName(), logger)
			if info, ok := runner.VersionInfo(cmd.Context(), result.Path); ok {
				fmt.Fprintf(out, "Version: %s\n", info.Version)
			} else {
				fmt.Fprintln(out, "Version: unknown (version query failed)")
			}

			if save {
				updated := cfg.Clone()
				updated.Tool.SavedPath = result.Path
				if err := ctx.saveConfig(updated); err != nil {
					return fmt.Errorf("save tool location: %w", err)
				}
				fmt.Fprintf(out, "Saved tool location to %s\n", ctx.configPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Remember the detected location in the config file")
	return cmd
}

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	var inputOnly, outputOnly bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the input and output formats the tool supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg, nil)
			if err != nil {
				return err
			}
			runner := pandoc.NewRunner(cfg.ToolName(), logger)
			ready := preflight.CheckTool(cmd.Context(), ctx.newResolver(cfg, logger), runner, cfg.Tool.Path)
			if !ready.Ready {
				return fmt.Errorf("%s not ready: %s", cfg.ToolName(), ready.Detail)
			}

			out := cmd.OutOrStdout()
			switch {
			case inputOnly:
				fmt.Fprintln(out, strings.Join(ready.InputFormats, "\n"))
			case outputOnly:
				fmt.Fprintln(out, strings.Join(ready.OutputFormats, "\n"))
			default:
				rows := make([][]string, max(len(ready.InputFormats), len(ready.OutputFormats)))
				for i := range rows {
					rows[i] = []string{at(ready.InputFormats, i), at(ready.OutputFormats, i)}
				}
				fmt.Fprintln(out, renderTable(leftColumns("Input", "Output"), rows))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&inputOnly, "input", false, "Only list input formats, one per line")
	cmd.Flags().BoolVar(&outputOnly, "output", false, "Only list output formats, one per line")
	cmd.MarkFlagsMutuallyExclusive("input", "output")
	return cmd
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
