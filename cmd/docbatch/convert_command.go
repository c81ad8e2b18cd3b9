package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"docbatch/internal/config"
	"docbatch/internal/formats"
	"docbatch/internal/logging"
	"docbatch/internal/queue"
	"docbatch/internal/workflow"
)

const batchLockName = "batch.lock"

type convertOptions struct {
	to           string
	from         string
	extension    string
	outputDir    string
	args         string
	template     string
	parallel     int
	preset       string
	adoptDir     bool
	saveSettings bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <path>...",
		Short: "Convert files (or every file directly inside a directory) in one batch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.to, "to", "t", "", "Output format")
	flags.StringVarP(&opts.from, "from", "f", "", "Input format (blank or \"auto\" lets the tool infer it)")
	flags.StringVar(&opts.extension, "ext", "", "Output file extension")
	flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for converted files")
	flags.StringVar(&opts.args, "args", "", "Additional tool arguments (quoted like a shell command line)")
	flags.StringVar(&opts.template, "template", "", "Template file passed to the tool")
	flags.IntVarP(&opts.parallel, "parallel", "j", 0, "Maximum conversions in flight (1-8)")
	flags.StringVar(&opts.preset, "preset", "", "Apply a preset before the other flags")
	flags.BoolVar(&opts.adoptDir, "adopt-output-dir", true, "Use the first input's directory when no output directory is set")
	flags.BoolVar(&opts.saveSettings, "save", false, "Persist the resulting settings to the config file")
	return cmd
}

// applyConvertFlags layers the preset and explicit flags over cfg.
func applyConvertFlags(cmd *cobra.Command, cfg *config.Config, opts convertOptions) error {
	if name := strings.TrimSpace(opts.preset); name != "" {
		preset, err := formats.FindPreset(cfg, name)
		if err != nil {
			return err
		}
		formats.Apply(cfg, preset)
	}

	flags := cmd.Flags()
	if flags.Changed("to") {
		formats.SelectOutputFormat(cfg, opts.to)
	}
	if flags.Changed("from") {
		cfg.Conversion.InputFormat = strings.TrimSpace(opts.from)
	}
	if flags.Changed("ext") {
		cfg.Conversion.OutputExtension = strings.TrimPrefix(strings.TrimSpace(opts.extension), ".")
	}
	if flags.Changed("output-dir") {
		dir, err := expandOptional(opts.outputDir)
		if err != nil {
			return fmt.Errorf("resolve output directory: %w", err)
		}
		cfg.Conversion.OutputDir = dir
	}
	if flags.Changed("args") {
		cfg.Conversion.AdditionalArgs = opts.args
	}
	if flags.Changed("template") {
		tmpl, err := expandOptional(opts.template)
		if err != nil {
			return fmt.Errorf("resolve template: %w", err)
		}
		cfg.Conversion.TemplatePath = tmpl
	}
	if flags.Changed("parallel") {
		cfg.Conversion.MaxParallelism = config.ClampParallelism(opts.parallel)
	}
	return cfg.Validate()
}

func runConvert(cmd *cobra.Command, ctx *commandContext, opts convertOptions, paths []string) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := loaded.Clone()
	if err := applyConvertFlags(cmd, cfg, opts); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, batchLockName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another docbatch conversion is running against %s", cfg.Paths.DataDir)
	}
	defer func() { _ = lock.Unlock() }()

	stderr := cmd.ErrOrStderr()
	out := newConsole(stderr, shouldColorize(stderr))

	hub := logging.NewStreamHub(1024)
	logger, err := ctx.newLogger(cfg, hub)
	if err != nil {
		return err
	}
	stopEvents := out.followEvents(hub)
	defer stopEvents()

	store, err := ctx.openHistory(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this batch will not appear in 'docbatch history'"),
		)
	} else {
		defer store.Close()
	}

	toSave := cfg.Clone()
	engine := ctx.newEngine(cfg, logger, store)

	var enqueueOpts []workflow.EnqueueOption
	if opts.adoptDir {
		enqueueOpts = append(enqueueOpts, workflow.AdoptOutputDir())
	}
	signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs := engine.EnqueuePaths(signalCtx, paths, enqueueOpts...)
	if len(jobs) == 0 {
		return errors.New("no input files found")
	}

	batch, err := engine.StartBatch(signalCtx, engine.Settings().Parallelism())
	if err != nil {
		return err
	}
	watchPauseToggle(signalCtx, engine, logger)

	progressCtx, stopProgress := context.WithCancel(signalCtx)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for stats := range engine.Subscribe(progressCtx) {
			out.setProgress(stats)
		}
	}()

	summary := batch.Wait()
	stopProgress()
	<-progressDone
	out.clearProgress()
	stopEvents()

	fmt.Fprintln(cmd.OutOrStdout(), renderJobsTable(engine.Jobs()))
	fmt.Fprintln(cmd.OutOrStdout(), summary.String())

	if opts.saveSettings {
		if err := ctx.saveConfig(toSave); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}

	switch {
	case summary.Cancelled:
		return context.Canceled
	case summary.Failed > 0:
		return fmt.Errorf("%d of %d conversions failed", summary.Failed, summary.Total)
	}
	return nil
}

func renderJobsTable(jobs []queue.Job) string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, []string{
			filepath.Base(job.InputPath),
			string(job.Status),
			valueOrDash(job.OutputPath),
			valueOrDash(job.Message),
			formatDuration(job.Duration()),
		})
	}
	return renderTable([]tableColumn{
		{Header: "Input"},
		{Header: "Status"},
		{Header: "Output", MaxWidth: 60},
		{Header: "Message", MaxWidth: 60},
		{Header: "Time", Align: alignRight},
	}, rows)
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(10 * time.Millisecond).String()
}

func expandOptional(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	return config.ExpandPath(trimmed)
}
