package workflow

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"docbatch/internal/config"
	"docbatch/internal/formats"
	"docbatch/internal/history"
	"docbatch/internal/logging"
	"docbatch/internal/queue"
	"docbatch/internal/textutil"
)

// EnqueueOption adjusts EnqueuePaths.
type EnqueueOption func(*enqueueOptions)

type enqueueOptions struct {
	adoptOutputDir bool
}

// AdoptOutputDir makes the first enqueued file's directory the output
// directory when none is configured.
func AdoptOutputDir() EnqueueOption {
	return func(o *enqueueOptions) {
		o.adoptOutputDir = true
	}
}

// Enqueue adds one file. It is a no-op returning false when the input path is
// blank or already queued (compared case-insensitively).
func (e *Engine) Enqueue(inputPath string) (queue.Job, bool) {
	inputPath = strings.TrimSpace(inputPath)
	if inputPath == "" {
		return queue.Job{}, false
	}
	if e.queue.Contains(inputPath) {
		return queue.Job{}, false
	}

	e.mu.Lock()
	outputFor := formats.NewResolver(e.cfg).OutputPathFunc()
	e.mu.Unlock()

	job, added := e.queue.Add(inputPath, outputFor(inputPath))
	if !added {
		return queue.Job{}, false
	}
	e.logger.Debug("job queued",
		logging.String(logging.FieldJob, job.InputPath),
		logging.String("output", job.OutputPath),
	)
	e.publish()
	return job, true
}

// EnqueuePaths adds files and the direct (non-recursive) file children of
// directories. Blank and missing paths are ignored. Newly queued files are
// remembered in the recent-files list.
func (e *Engine) EnqueuePaths(ctx context.Context, paths []string, opts ...EnqueueOption) []queue.Job {
	var options enqueueOptions
	for _, opt := range opts {
		opt(&options)
	}

	var added []queue.Job
	for _, raw := range paths {
		path := strings.TrimSpace(raw)
		if path == "" {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		info, err := os.Stat(path)
		if err != nil {
			e.logger.Debug("ignoring path", logging.String("path", path), logging.Error(err))
			continue
		}
		candidates := []string{path}
		if info.IsDir() {
			candidates = directoryFiles(path)
		} else if !info.Mode().IsRegular() {
			continue
		}
		for _, file := range candidates {
			if options.adoptOutputDir {
				e.adoptOutputDir(ctx, file)
			}
			job, ok := e.Enqueue(file)
			if !ok {
				continue
			}
			added = append(added, job)
			e.remember(ctx, history.RecentFiles, job.InputPath)
		}
	}
	if len(added) > 0 {
		e.logger.Info("files queued",
			logging.Int("count", len(added)),
			logging.Int("queue_total", e.queue.Len()),
			logging.String(logging.FieldEventType, "jobs_queued"),
		)
	}
	return added
}

// Remove deletes a job from the queue.
func (e *Engine) Remove(inputPath string) bool {
	if !e.queue.Remove(inputPath) {
		return false
	}
	e.publish()
	return true
}

// Clear empties the queue and returns the number of removed jobs.
func (e *Engine) Clear() int {
	removed := e.queue.Clear()
	if removed > 0 {
		e.publish()
	}
	return removed
}

func (e *Engine) adoptOutputDir(ctx context.Context, file string) {
	if e.queue.Contains(file) {
		return
	}
	dir := filepath.Dir(file)
	adopted := false
	e.ApplySettings(func(cfg *config.Config) {
		if strings.TrimSpace(cfg.Conversion.OutputDir) == "" {
			cfg.Conversion.OutputDir = dir
			adopted = true
		}
	})
	if adopted {
		e.logger.Info("output directory adopted from first file",
			logging.String("output_dir", dir),
			logging.String(logging.FieldEventType, "output_dir_adopted"),
		)
		e.remember(ctx, history.RecentOutputDirs, dir)
	}
}

func directoryFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	slices.SortFunc(files, textutil.CompareFold)
	return files
}

func (e *Engine) remember(ctx context.Context, kind history.RecentKind, value string) {
	if e.recorder == nil || strings.TrimSpace(value) == "" {
		return
	}
	if err := e.recorder.AddRecent(ctx, kind, value); err != nil {
		e.logger.Warn("recent list update failed",
			logging.String("kind", string(kind)),
			logging.Error(err),
			logging.String(logging.FieldEventType, "recent_update_failed"),
			logging.String(logging.FieldErrorHint, "check the data directory is writable"),
		)
	}
}
