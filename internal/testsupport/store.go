package testsupport

import (
	"path/filepath"
	"testing"

	"docbatch/internal/config"
	"docbatch/internal/history"
)

// MustOpenHistory opens a history.Store under the config's data directory and
// registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(filepath.Join(cfg.Paths.DataDir, history.DefaultFileName))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
