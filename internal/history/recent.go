package history

import (
	"context"
	"fmt"
	"strings"

	"docbatch/internal/textutil"
)

// RecentKind names one of the most-recently-used lists.
type RecentKind string

const (
	RecentFiles      RecentKind = "files"
	RecentOutputDirs RecentKind = "output_dirs"
	RecentTemplates  RecentKind = "templates"
	RecentFormats    RecentKind = "formats"
)

// RecentKinds lists every kind in display order.
var RecentKinds = []RecentKind{RecentFiles, RecentOutputDirs, RecentTemplates, RecentFormats}

// Limit is the number of entries kept for the kind.
func (k RecentKind) Limit() int {
	switch k {
	case RecentFormats:
		return 6
	default:
		return 10
	}
}

// ParseRecentKind accepts a kind name, ignoring case and dashes.
func ParseRecentKind(value string) (RecentKind, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_")
	for _, k := range RecentKinds {
		if string(k) == normalized {
			return k, true
		}
	}
	switch normalized {
	case "file":
		return RecentFiles, true
	case "dirs", "output_dir", "outputs":
		return RecentOutputDirs, true
	case "template":
		return RecentTemplates, true
	case "format":
		return RecentFormats, true
	}
	return "", false
}

// AddRecent moves value to the front of the kind's list. Entries equal
// ignoring case collapse into one, keeping the latest spelling. Blank
// values are ignored.
func (s *Store) AddRecent(ctx context.Context, kind RecentKind, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	key := textutil.Fold(value)
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `INSERT INTO recent_entries (kind, value_key, value, seq)
            VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM recent_entries))
            ON CONFLICT(kind, value_key) DO UPDATE SET value = excluded.value, seq = excluded.seq`,
			string(kind), key, value); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM recent_entries WHERE kind = ? AND value_key NOT IN
            (SELECT value_key FROM recent_entries WHERE kind = ? ORDER BY seq DESC LIMIT ?)`,
			string(kind), string(kind), kind.Limit()); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("add recent %s: %w", kind, err)
	}
	return nil
}

// Recent returns the kind's entries, most recent first.
func (s *Store) Recent(ctx context.Context, kind RecentKind) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT value FROM recent_entries WHERE kind = ? ORDER BY seq DESC LIMIT ?",
		string(kind), kind.Limit())
	if err != nil {
		return nil, fmt.Errorf("query recent %s: %w", kind, err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan recent %s: %w", kind, err)
		}
		out = append(out, value)
	}
	return out, rows.Err()
}

// ClearRecent empties one list.
func (s *Store) ClearRecent(ctx context.Context, kind RecentKind) error {
	if err := s.exec(ctx, "DELETE FROM recent_entries WHERE kind = ?", string(kind)); err != nil {
		return fmt.Errorf("clear recent %s: %w", kind, err)
	}
	return nil
}
