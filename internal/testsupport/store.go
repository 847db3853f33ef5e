package testsupport

import (
	"testing"

	"upkeep/internal/config"
	"upkeep/internal/history"
)

// MustOpenStore opens the history store for the given config and registers
// cleanup on the test.
func MustOpenStore(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
