package history_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"upkeep/internal/checks"
	"upkeep/internal/config"
	"upkeep/internal/history"
)

func openStore(t *testing.T, retention int) *history.Store {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.History.Path = ""
	cfg.History.RetentionRuns = retention

	store, err := history.Open(&cfg)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResults() []checks.Result {
	return []checks.Result{
		{Check: "units", Findings: []checks.Finding{{
			Category: checks.CategoryFailedUnit,
			Check:    "units",
			Summary:  `"Foo" (foo.service) failed to start normally`,
		}}},
		{Check: "journal"},
		checks.Unavailable("updates", errors.New("no backend")),
	}
}

func TestRecordAndReadBackRun(t *testing.T) {
	store := openStore(t, 10)
	ctx := context.Background()

	started := time.Now().Add(-2 * time.Second)
	id, err := store.RecordRun(ctx, history.Run{
		RunID:     "run-1",
		StartedAt: started,
		FinishedAt: time.Now(),
		Notified:  true,
	}, sampleResults())
	if err != nil {
		t.Fatalf("RecordRun returned error: %v", err)
	}

	last, err := store.LastRun(ctx)
	if err != nil {
		t.Fatalf("LastRun returned error: %v", err)
	}
	if last == nil {
		t.Fatal("expected a recorded run")
	}
	if last.ID != id || last.RunID != "run-1" || !last.Notified {
		t.Fatalf("unexpected run: %#v", last)
	}
	// Findings count includes the unavailable marker.
	if last.Findings != 2 {
		t.Fatalf("expected 2 findings recorded, got %d", last.Findings)
	}
	if len(last.Checks) != 3 {
		t.Fatalf("expected 3 check records, got %d", len(last.Checks))
	}
	statuses := map[string]history.CheckStatus{}
	for _, rec := range last.Checks {
		statuses[rec.Check] = rec.Status
	}
	if statuses["units"] != history.StatusFindings {
		t.Fatalf("unexpected units status: %s", statuses["units"])
	}
	if statuses["journal"] != history.StatusOK {
		t.Fatalf("unexpected journal status: %s", statuses["journal"])
	}
	if statuses["updates"] != history.StatusUnavailable {
		t.Fatalf("unexpected updates status: %s", statuses["updates"])
	}

	findings, err := store.FindingsForRun(ctx, id)
	if err != nil {
		t.Fatalf("FindingsForRun returned error: %v", err)
	}
	if len(findings) != 2 {
		t.Fatalf("expected 2 stored findings, got %d", len(findings))
	}
	if findings[0].Category != string(checks.CategoryFailedUnit) {
		t.Fatalf("unexpected finding: %#v", findings[0])
	}
}

func TestLastRunEmptyHistory(t *testing.T) {
	store := openStore(t, 10)
	last, err := store.LastRun(context.Background())
	if err != nil {
		t.Fatalf("LastRun returned error: %v", err)
	}
	if last != nil {
		t.Fatalf("expected nil run for empty history, got %#v", last)
	}
}

func TestRetentionPrunesOldRuns(t *testing.T) {
	store := openStore(t, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.RecordRun(ctx, history.Run{
			RunID:      fmt.Sprintf("run-%d", i),
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
		}, nil)
		if err != nil {
			t.Fatalf("RecordRun %d returned error: %v", i, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns returned error: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected retention to keep 3 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-4" {
		t.Fatalf("expected newest first, got %q", runs[0].RunID)
	}
	if runs[2].RunID != "run-2" {
		t.Fatalf("expected oldest surviving run-2, got %q", runs[2].RunID)
	}
}
