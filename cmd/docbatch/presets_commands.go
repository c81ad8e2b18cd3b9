package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docbatch/internal/config"
	"docbatch/internal/formats"
)

func newPresetsCommand(ctx *commandContext) *cobra.Command {
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List, apply and manage conversion presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rows := [][]string{}
			for _, p := range formats.Presets(cfg) {
				kind := "custom"
				if p.BuiltIn {
					kind = "built-in"
				}
				rows = append(rows, []string{p.Name, p.OutputFormat, valueOrDash(p.Extension), valueOrDash(p.Args), valueOrDash(p.Template), kind})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(leftColumns("Name", "Format", "Extension", "Args", "Template", "Kind"), rows))
			return nil
		},
	}

	presetsCmd.AddCommand(&cobra.Command{
		Use:   "apply <name>",
		Short: "Copy a preset into the saved conversion settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPresets(cmd, ctx, func(cfg *config.Config) (string, error) {
				preset, err := formats.FindPreset(cfg, args[0])
				if err != nil {
					return "", err
				}
				formats.Apply(cfg, preset)
				return fmt.Sprintf("Applied preset %s (output format %s)", preset.Name, cfg.Conversion.OutputFormat), nil
			})
		},
	})
	presetsCmd.AddCommand(&cobra.Command{
		Use:   "save <name>",
		Short: "Store the current conversion settings as a custom preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPresets(cmd, ctx, func(cfg *config.Config) (string, error) {
				preset, err := formats.SavePreset(cfg, args[0])
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("Saved preset %s", preset.Name), nil
			})
		},
	})
	presetsCmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Delete a custom preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return editPresets(cmd, ctx, func(cfg *config.Config) (string, error) {
				if err := formats.RemovePreset(cfg, args[0]); err != nil {
					return "", err
				}
				return fmt.Sprintf("Removed preset %s", args[0]), nil
			})
		},
	})
	return presetsCmd
}

// editPresets applies fn to a copy of the loaded config and saves it when fn
// succeeds.
func editPresets(cmd *cobra.Command, ctx *commandContext, fn func(cfg *config.Config) (string, error)) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := loaded.Clone()
	message, err := fn(cfg)
	if err != nil {
		return err
	}
	if err := ctx.saveConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), message)
	return nil
}
