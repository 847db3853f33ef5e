package checks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"upkeep/internal/checks"
)

type stubChecker struct {
	name     string
	findings []checks.Finding
	err      error
	delay    time.Duration
}

func (s stubChecker) Name() string { return s.name }

func (s stubChecker) Run(ctx context.Context) ([]checks.Finding, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.findings, s.err
}

func TestRunnerPreservesRegistrationOrder(t *testing.T) {
	// The slowest check is registered first; its result must still come first.
	runner := checks.NewRunner(nil,
		stubChecker{name: "units", delay: 30 * time.Millisecond},
		stubChecker{name: "journal"},
		stubChecker{name: "updates"},
	)

	results := runner.Run(context.Background())
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"units", "journal", "updates"} {
		if results[i].Check != want {
			t.Fatalf("result %d: got %q want %q", i, results[i].Check, want)
		}
	}
}

func TestRunnerDegradesFailedCheckToUnavailable(t *testing.T) {
	failing := stubChecker{name: "updates", err: errors.New("checkupdates not found")}
	healthy := stubChecker{name: "units", findings: []checks.Finding{{
		Category: checks.CategoryFailedUnit,
		Check:    "units",
		Summary:  "foo.service failed",
	}}}

	results := checks.NewRunner(nil, healthy, failing).Run(context.Background())

	if !results[0].HasFindings() {
		t.Fatal("expected healthy check findings to survive")
	}
	if !results[1].Unavailable {
		t.Fatal("expected failing check marked unavailable")
	}
	if len(results[1].Findings) != 1 || results[1].Findings[0].Category != checks.CategoryUnavailable {
		t.Fatalf("expected a single unavailable finding, got %#v", results[1].Findings)
	}
	if results[1].Detail == "" {
		t.Fatal("expected unavailable detail")
	}
	if results[1].HasFindings() {
		t.Fatal("unavailable marker must not count as a reportable finding")
	}
}

func TestTotalFindingsCountsUnavailableMarkers(t *testing.T) {
	results := []checks.Result{
		{Check: "units", Findings: []checks.Finding{{Category: checks.CategoryFailedUnit}}},
		checks.Unavailable("journal", errors.New("journalctl missing")),
		{Check: "updates"},
	}
	if got := checks.TotalFindings(results); got != 2 {
		t.Fatalf("expected 2 findings, got %d", got)
	}
}
