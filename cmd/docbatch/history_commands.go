package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"docbatch/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history [batch-id]",
		Short: "Show recent batches, or the jobs of one batch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if len(args) == 1 {
				return printBatchJobs(cmd, store, strings.TrimSpace(args[0]))
			}

			batches, err := store.RecentBatches(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(batches) == 0 {
				fmt.Fprintln(out, "No batches recorded")
				return nil
			}
			rows := make([][]string, 0, len(batches))
			for _, b := range batches {
				rows = append(rows, []string{
					b.ID,
					b.StartedAt.Local().Format(time.DateTime),
					b.OutputFormat,
					strconv.Itoa(b.Total),
					strconv.Itoa(b.Succeeded),
					strconv.Itoa(b.Failed),
					strconv.Itoa(b.Skipped),
					batchState(b),
				})
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				{Header: "Batch"},
				{Header: "Started"},
				{Header: "Format"},
				{Header: "Jobs", Align: alignRight},
				{Header: "OK", Align: alignRight},
				{Header: "Failed", Align: alignRight},
				{Header: "Skipped", Align: alignRight},
				{Header: "State"},
			}, rows))
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of batches to show")

	var keep int
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			removed, err := store.Prune(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d batch(es)\n", removed)
			return nil
		},
	}
	pruneCmd.Flags().IntVar(&keep, "keep", 50, "Number of batches to keep")
	historyCmd.AddCommand(pruneCmd)

	return historyCmd
}

func printBatchJobs(cmd *cobra.Command, store *history.Store, id string) error {
	batch, err := store.Batch(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrBatchNotFound) {
			return fmt.Errorf("batch %s not found", id)
		}
		return err
	}
	results, err := store.JobResults(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Batch %s (%s, %s)\n", batch.ID, batch.OutputFormat, batchState(batch))
	fmt.Fprintf(out, "Tool: %s · parallelism %d\n", batch.ToolPath, batch.Parallelism)
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			filepath.Base(r.InputPath),
			string(r.Status),
			valueOrDash(r.Message),
			strconv.Itoa(r.ExitCode),
			formatDuration(r.Duration),
		})
	}
	fmt.Fprintln(out, renderTable([]tableColumn{
		{Header: "Input"},
		{Header: "Status"},
		{Header: "Message", MaxWidth: 60},
		{Header: "Exit", Align: alignRight},
		{Header: "Time", Align: alignRight},
	}, rows))
	return nil
}

func batchState(b history.BatchRecord) string {
	switch {
	case !b.Finished():
		return "incomplete"
	case b.Cancelled:
		return "cancelled"
	default:
		return "finished in " + formatDuration(b.Duration())
	}
}
