package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docbatch/internal/history"
)

func newRecentCommand(ctx *commandContext) *cobra.Command {
	var clearLists bool

	cmd := &cobra.Command{
		Use:   "recent [files|output-dirs|templates|formats]",
		Short: "Show recently used files, output directories, templates and formats",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := history.RecentKinds
			if len(args) == 1 {
				kind, ok := history.ParseRecentKind(args[0])
				if !ok {
					return fmt.Errorf("unknown recent list %q", args[0])
				}
				kinds = []history.RecentKind{kind}
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for i, kind := range kinds {
				if clearLists {
					if err := store.ClearRecent(cmd.Context(), kind); err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared recent %s\n", kind)
					continue
				}
				values, err := store.Recent(cmd.Context(), kind)
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, renderSectionHeader(string(kind), colorize))
				if len(values) == 0 {
					fmt.Fprintln(out, statusIndent+"(none)")
				}
				for _, v := range values {
					fmt.Fprintln(out, statusIndent+v)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearLists, "clear", false, "Clear the list(s) instead of showing them")
	return cmd
}
