package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"docbatch/internal/cmdline"
	"docbatch/internal/formats"
)

func newFormatCommand(ctx *commandContext) *cobra.Command {
	formatCmd := &cobra.Command{
		Use:   "format",
		Short: "Manage per-output-format settings",
	}
	formatCmd.AddCommand(newFormatShowCommand(ctx))
	formatCmd.AddCommand(newFormatSetCommand(ctx))
	formatCmd.AddCommand(newFormatClearCommand(ctx))
	return formatCmd
}

func newFormatShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [format]",
		Short: "List stored overrides, or show the effective settings for one format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resolver := formats.NewResolver(cfg)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				overrides := resolver.Overrides()
				if len(overrides) == 0 {
					fmt.Fprintln(out, "No format overrides stored")
					return nil
				}
				rows := make([][]string, 0, len(overrides))
				for _, o := range overrides {
					rows = append(rows, []string{o.Format, valueOrDash(o.Extension), valueOrDash(o.ExtraArgs), valueOrDash(o.TemplatePath)})
				}
				fmt.Fprintln(out, renderTable(leftColumns("Format", "Extension", "Args", "Template"), rows))
				return nil
			}

			eff := resolver.Resolve(args[0])
			_, overridden := resolver.Override(args[0])
			fmt.Fprintf(out, "Format:     %s\n", eff.Format)
			fmt.Fprintf(out, "Override:   %s\n", yesNo(overridden))
			fmt.Fprintf(out, "Extension:  %s\n", eff.Extension)
			fmt.Fprintf(out, "Arguments:  %s\n", valueOrDash(cmdline.Join(eff.ExtraArgs)))
			fmt.Fprintf(out, "Template:   %s\n", valueOrDash(eff.TemplatePath))
			return nil
		},
	}
}

func newFormatSetCommand(ctx *commandContext) *cobra.Command {
	var extension, extraArgs, template string

	cmd := &cobra.Command{
		Use:   "set <format>",
		Short: "Store an override for one output format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := loaded.Clone()
			resolver := formats.NewResolver(cfg)
			current, _ := resolver.Override(args[0])

			flags := cmd.Flags()
			if flags.Changed("ext") {
				current.Extension = extension
			}
			if flags.Changed("args") {
				current.ExtraArgs = extraArgs
			}
			if flags.Changed("template") {
				tmpl, err := expandOptional(template)
				if err != nil {
					return fmt.Errorf("resolve template: %w", err)
				}
				current.TemplatePath = tmpl
			}

			name := strings.TrimSpace(args[0])
			stored := resolver.Save(name, current.Extension, current.ExtraArgs, current.TemplatePath)
			if err := ctx.saveConfig(cfg); err != nil {
				return err
			}
			if stored {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved override for %s\n", name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Override for %s is empty and was removed\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&extension, "ext", "", "Output file extension for this format")
	cmd.Flags().StringVar(&extraArgs, "args", "", "Arguments appended after the global ones")
	cmd.Flags().StringVar(&template, "template", "", "Template file for this format")
	return cmd
}

func newFormatClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <format>",
		Short: "Remove the override for one output format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := loaded.Clone()
			name := strings.TrimSpace(args[0])
			if !formats.NewResolver(cfg).Clear(name) {
				fmt.Fprintf(cmd.OutOrStdout(), "No override stored for %s\n", name)
				return nil
			}
			if err := ctx.saveConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared override for %s\n", name)
			return nil
		},
	}
}
