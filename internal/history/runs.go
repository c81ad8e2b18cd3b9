package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"docbatch/internal/queue"
)

// ErrBatchNotFound is returned when a batch ID has no record.
var ErrBatchNotFound = errors.New("batch not found")

// BatchRecord summarizes one batch run.
type BatchRecord struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	ToolPath     string
	OutputFormat string
	Parallelism  int
	Total        int
	Succeeded    int
	Failed       int
	Skipped      int
	Cancelled    bool
}

// Finished reports whether the batch reached its end.
func (b BatchRecord) Finished() bool {
	return !b.FinishedAt.IsZero()
}

// Duration is the wall time of a finished batch.
func (b BatchRecord) Duration() time.Duration {
	if b.StartedAt.IsZero() || b.FinishedAt.IsZero() {
		return 0
	}
	return b.FinishedAt.Sub(b.StartedAt)
}

// JobResult is the terminal outcome of one job within a batch.
type JobResult struct {
	BatchID    string
	InputPath  string
	OutputPath string
	Status     queue.Status
	Message    string
	ExitCode   int
	Duration   time.Duration
	FinishedAt time.Time
}

// BatchTotals carries the end-of-batch counters.
type BatchTotals struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Cancelled bool
}

// BeginBatch inserts a batch row at start time.
func (s *Store) BeginBatch(ctx context.Context, rec BatchRecord) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("batch id required")
	}
	started := rec.StartedAt
	if started.IsZero() {
		started = s.now()
	}
	err := s.exec(ctx, `INSERT INTO batches
        (id, started_at, tool_path, output_format, parallelism, total)
        VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, toMillis(started), rec.ToolPath, rec.OutputFormat, rec.Parallelism, rec.Total,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// FinishBatch stores the final counters for a batch.
func (s *Store) FinishBatch(ctx context.Context, id string, totals BatchTotals) error {
	var result sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		result, execErr = s.db.ExecContext(ctx, `UPDATE batches SET
            finished_at = ?, total = ?, succeeded = ?, failed = ?, skipped = ?, cancelled = ?
            WHERE id = ?`,
			toMillis(s.now()), totals.Total, totals.Succeeded, totals.Failed, totals.Skipped,
			boolToInt(totals.Cancelled), id,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("finish batch: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("finish batch %s: %w", id, ErrBatchNotFound)
	}
	return nil
}

// RecordJob appends a job outcome to a batch.
func (s *Store) RecordJob(ctx context.Context, res JobResult) error {
	finished := res.FinishedAt
	if finished.IsZero() {
		finished = s.now()
	}
	err := s.exec(ctx, `INSERT INTO job_results
        (batch_id, input_path, output_path, status, message, exit_code, duration_ms, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.BatchID, res.InputPath, res.OutputPath, string(res.Status), res.Message,
		res.ExitCode, res.Duration.Milliseconds(), toMillis(finished),
	)
	if err != nil {
		return fmt.Errorf("insert job result: %w", err)
	}
	return nil
}

// RecentBatches lists batches newest first. A non-positive limit returns all.
func (s *Store) RecentBatches(ctx context.Context, limit int) ([]BatchRecord, error) {
	query := `SELECT id, started_at, finished_at, tool_path, output_format, parallelism,
        total, succeeded, failed, skipped, cancelled
        FROM batches ORDER BY started_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var out []BatchRecord
	for rows.Next() {
		rec, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Batch fetches a single batch by ID.
func (s *Store) Batch(ctx context.Context, id string) (BatchRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, started_at, finished_at, tool_path, output_format,
        parallelism, total, succeeded, failed, skipped, cancelled
        FROM batches WHERE id = ?`, id)
	rec, err := scanBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BatchRecord{}, fmt.Errorf("batch %s: %w", id, ErrBatchNotFound)
	}
	return rec, err
}

// JobResults lists the recorded outcomes of a batch in completion order.
func (s *Store) JobResults(ctx context.Context, batchID string) ([]JobResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT batch_id, input_path, output_path, status, message,
        exit_code, duration_ms, finished_at
        FROM job_results WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query job results: %w", err)
	}
	defer rows.Close()

	var out []JobResult
	for rows.Next() {
		var (
			res        JobResult
			status     string
			durationMS int64
			finishedMS int64
		)
		if err := rows.Scan(&res.BatchID, &res.InputPath, &res.OutputPath, &status, &res.Message,
			&res.ExitCode, &durationMS, &finishedMS); err != nil {
			return nil, fmt.Errorf("scan job result: %w", err)
		}
		res.Status = queue.Status(status)
		res.Duration = time.Duration(durationMS) * time.Millisecond
		res.FinishedAt = fromMillis(finishedMS)
		out = append(out, res)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep batches along with their job results.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	var result sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		result, execErr = s.db.ExecContext(ctx, `DELETE FROM batches WHERE id NOT IN
            (SELECT id FROM batches ORDER BY started_at DESC, rowid DESC LIMIT ?)`, keep)
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("prune batches: %w", err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBatch(row rowScanner) (BatchRecord, error) {
	var (
		rec        BatchRecord
		startedMS  int64
		finishedMS sql.NullInt64
		cancelled  int
	)
	if err := row.Scan(&rec.ID, &startedMS, &finishedMS, &rec.ToolPath, &rec.OutputFormat,
		&rec.Parallelism, &rec.Total, &rec.Succeeded, &rec.Failed, &rec.Skipped, &cancelled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BatchRecord{}, err
		}
		return BatchRecord{}, fmt.Errorf("scan batch: %w", err)
	}
	rec.StartedAt = fromMillis(startedMS)
	if finishedMS.Valid {
		rec.FinishedAt = fromMillis(finishedMS.Int64)
	}
	rec.Cancelled = cancelled != 0
	return rec, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
