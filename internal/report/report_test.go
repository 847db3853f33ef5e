package report_test

import (
	"errors"
	"strings"
	"testing"

	"upkeep/internal/checks"
	"upkeep/internal/config"
	"upkeep/internal/notify"
	"upkeep/internal/report"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StateDir = t.TempDir()
	cfg.Notify.TerminalCommand = "kgx"
	cfg.Updates.UpgradeCommand = "sudo pacman -Syu"
	return &cfg
}

func unitFindings(n int) []checks.Finding {
	findings := make([]checks.Finding, n)
	for i := range findings {
		findings[i] = checks.Finding{
			Category: checks.CategoryFailedUnit,
			Check:    "units",
			Summary:  `"Foo Daemon" (foo.service) failed to start normally`,
		}
	}
	return findings
}

func TestBuildNoFindingsNoMessages(t *testing.T) {
	results := []checks.Result{
		{Check: "units"},
		{Check: "journal"},
		{Check: "updates"},
	}
	if msgs := report.Build(results, testConfig(t)); len(msgs) != 0 {
		t.Fatalf("expected silence on a healthy system, got %d messages", len(msgs))
	}
}

func TestBuildSingleFailedUnitNamesTheUnit(t *testing.T) {
	results := []checks.Result{{Check: "units", Findings: unitFindings(1)}}
	msgs := report.Build(results, testConfig(t))
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	n := msgs[0].Notification
	if n.Summary != "Systemd unit failed to load" {
		t.Fatalf("unexpected summary: %q", n.Summary)
	}
	if !strings.Contains(n.Body, "foo.service") {
		t.Fatalf("body should name the unit: %q", n.Body)
	}
	if n.Urgency != notify.UrgencyCritical {
		t.Fatalf("expected critical urgency, got %d", n.Urgency)
	}
	if n.ActionLabel != "Investigate" {
		t.Fatalf("expected Investigate action, got %q", n.ActionLabel)
	}
	if len(msgs[0].Investigate) == 0 || msgs[0].Investigate[0] != "kgx" {
		t.Fatalf("unexpected investigate argv: %v", msgs[0].Investigate)
	}
}

func TestBuildMultipleFailedUnitsCountsThem(t *testing.T) {
	results := []checks.Result{{Check: "units", Findings: unitFindings(3)}}
	msgs := report.Build(results, testConfig(t))
	if msgs[0].Notification.Summary != "Multiple systemd units failed to load" {
		t.Fatalf("unexpected summary: %q", msgs[0].Notification.Summary)
	}
	if !strings.Contains(msgs[0].Notification.Body, "3 units") {
		t.Fatalf("unexpected body: %q", msgs[0].Notification.Body)
	}
}

func TestBuildJournalMessagePointsAtErrorLog(t *testing.T) {
	cfg := testConfig(t)
	results := []checks.Result{{Check: "journal", Findings: []checks.Finding{
		{Category: checks.CategoryJournalError, Check: "journal", Summary: "smartd: disk error X"},
	}}}
	msgs := report.Build(results, cfg)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Notification.Body != "1 error not found in allowlist." {
		t.Fatalf("unexpected body: %q", msgs[0].Notification.Body)
	}
	if msgs[0].Notification.ActionLabel != "View Errors" {
		t.Fatalf("unexpected action: %q", msgs[0].Notification.ActionLabel)
	}
	if msgs[0].Investigate[1] != cfg.JournalLogPath() {
		t.Fatalf("investigate should open the error log: %v", msgs[0].Investigate)
	}
}

func TestBuildUpdatesSingleVsMany(t *testing.T) {
	cfg := testConfig(t)
	one := []checks.Result{{Check: "updates", Findings: []checks.Finding{
		{Category: checks.CategoryUpgradablePackage, Check: "updates", Summary: "zlib"},
	}}}
	msgs := report.Build(one, cfg)
	if msgs[0].Notification.Body != `"zlib" is ready to update.` {
		t.Fatalf("unexpected body: %q", msgs[0].Notification.Body)
	}
	if msgs[0].Notification.Icon != "software-update-available" {
		t.Fatalf("unexpected icon: %q", msgs[0].Notification.Icon)
	}

	many := []checks.Result{{Check: "updates", Findings: []checks.Finding{
		{Category: checks.CategoryUpgradablePackage, Summary: "zlib"},
		{Category: checks.CategoryUpgradablePackage, Summary: "curl"},
	}}}
	msgs = report.Build(many, cfg)
	if msgs[0].Notification.Body != "2 packages are ready to update." {
		t.Fatalf("unexpected body: %q", msgs[0].Notification.Body)
	}
}

func TestBuildUpdatesActionRequiresUpgradeCommand(t *testing.T) {
	cfg := testConfig(t)
	cfg.Updates.UpgradeCommand = ""
	results := []checks.Result{{Check: "updates", Findings: []checks.Finding{
		{Category: checks.CategoryUpgradablePackage, Summary: "zlib"},
	}}}
	msgs := report.Build(results, cfg)
	if msgs[0].Notification.ActionLabel != "" {
		t.Fatalf("expected no action without upgrade command, got %q", msgs[0].Notification.ActionLabel)
	}
}

func TestBuildFoldsUnavailableChecksIntoOneSummary(t *testing.T) {
	results := []checks.Result{
		{Check: "units", Findings: unitFindings(1)},
		checks.Unavailable("journal", errors.New("journalctl missing")),
		checks.Unavailable("updates", errors.New("no backend")),
	}
	msgs := report.Build(results, testConfig(t))
	if len(msgs) != 2 {
		t.Fatalf("expected units message plus one unavailable summary, got %d", len(msgs))
	}
	last := msgs[len(msgs)-1].Notification
	if last.Summary != "Maintenance checks unavailable" {
		t.Fatalf("unexpected summary: %q", last.Summary)
	}
	if !strings.Contains(last.Body, "journalctl missing") || !strings.Contains(last.Body, "no backend") {
		t.Fatalf("body should carry details: %q", last.Body)
	}
	if last.Urgency != notify.UrgencyLow {
		t.Fatalf("unavailable summary should be low urgency, got %d", last.Urgency)
	}
}

func TestBuildActionsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Notify.Actions = false
	results := []checks.Result{{Check: "units", Findings: unitFindings(1)}}
	msgs := report.Build(results, cfg)
	if msgs[0].Notification.ActionLabel != "" {
		t.Fatal("expected no action when actions disabled")
	}
}
