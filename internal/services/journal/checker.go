package journal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"upkeep/internal/allowlist"
	"upkeep/internal/checks"
	"upkeep/internal/logging"
)

// CheckName identifies the boot journal check in findings and history.
const CheckName = "journal"

// Checker adapts the journalctl client to the check runner.
type Checker struct {
	client *Client
	list   *allowlist.Allowlist
	// logPath receives the surviving entries each run; empty disables the
	// file entirely.
	logPath string
	log     *slog.Logger
}

// NewChecker wraps a client and allowlist for use by checks.Runner. A nil
// logger discards the checker's warnings.
func NewChecker(client *Client, list *allowlist.Allowlist, logPath string, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Checker{
		client:  client,
		list:    list,
		logPath: logPath,
		log:     logging.NewComponentLogger(logger, CheckName),
	}
}

func (c *Checker) Name() string { return CheckName }

// Run reports one finding per journal error not covered by the allowlist.
// The surviving entries are also written to the configured log file; the file
// is rewritten every run so resolved errors disappear from it.
func (c *Checker) Run(ctx context.Context) ([]checks.Finding, error) {
	entries, err := c.client.BootErrors(ctx)
	if err != nil {
		return nil, err
	}

	unmatched := Filter(entries, c.list)

	if c.logPath != "" {
		if err := writeErrorLog(c.logPath, unmatched); err != nil {
			// The file only backs the notification's "View Errors" action;
			// the fetched findings still stand.
			c.log.Warn("failed to write journal error log", slog.String("error", err.Error()))
		}
	}

	findings := make([]checks.Finding, 0, len(unmatched))
	for _, entry := range unmatched {
		findings = append(findings, checks.Finding{
			Category: checks.CategoryJournalError,
			Check:    CheckName,
			Summary:  fmt.Sprintf("%s: %s", entry.Identifier, entry.Message),
			Detail:   entry.Identifier,
		})
	}
	return findings, nil
}

// Filter drops entries whose message the allowlist marks as benign. Order is
// preserved; entries without a message always survive. Filtering the result
// again is a no-op.
func Filter(entries []Entry, list *allowlist.Allowlist) []Entry {
	if list.Empty() {
		return entries
	}
	kept := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.HasMessage && list.Allows(entry.Identifier, entry.Message) {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}

func writeErrorLog(path string, entries []Entry) error {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry.Identifier)
		b.WriteString(": ")
		b.WriteString(entry.Message)
		b.WriteByte('\n')
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create journal log directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write journal error log: %w", err)
	}
	return nil
}
