package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"upkeep/internal/allowlist"
	"upkeep/internal/checks"
	"upkeep/internal/config"
	"upkeep/internal/history"
	"upkeep/internal/logging"
	"upkeep/internal/notify"
	"upkeep/internal/report"
	"upkeep/internal/services"
	"upkeep/internal/services/journal"
	"upkeep/internal/services/packages"
	"upkeep/internal/services/systemd"
)

// Options configures a maintenance pass.
type Options struct {
	// Notify sends desktop notifications for findings. When false the
	// caller is expected to render the outcome itself.
	Notify bool
	// Service overrides the notification transport (primarily for tests).
	// Nil builds one from config.
	Service notify.Service
	// Executor overrides how investigation commands are spawned.
	Executor services.Executor
	// Checkers overrides the check set built from config (primarily for
	// tests).
	Checkers []checks.Checker
}

// Outcome is the result of one full maintenance pass.
type Outcome struct {
	RunID     string
	Results   []checks.Result
	Messages  []report.Message
	Notified  bool
	Transport string
}

// Run executes the full pass: lock, checks, filtering, notification, and
// history. Check failures degrade to unavailable findings; only setup
// problems (lock, allowlist, config) return an error.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Outcome, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	log := logging.NewComponentLogger(logger, "maintenance")

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.StateDir, "upkeep.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another upkeep run is already in progress (lock %s)", lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("failed to release run lock", slog.String("error", err.Error()))
		}
	}()

	runID := uuid.NewString()
	startedAt := time.Now()
	log.Info("maintenance run started", slog.String(logging.FieldRunID, runID))

	checkers := opts.Checkers
	if checkers == nil {
		checkers, err = buildCheckers(cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	results := checks.NewRunner(logger, checkers...).Run(ctx)
	messages := report.Build(results, cfg)

	outcome := &Outcome{
		RunID:     runID,
		Results:   results,
		Messages:  messages,
		Transport: "noop",
	}

	if opts.Notify && len(messages) > 0 {
		svc := opts.Service
		if svc == nil {
			svc = notify.NewService(ctx, cfg, logger)
		}
		outcome.Transport = svc.Transport()
		executor := opts.Executor
		if executor == nil {
			executor = services.NewExecutor()
		}
		outcome.Notified = deliver(ctx, log, svc, executor, messages)
	}

	if cfg.History.Enabled {
		if err := record(ctx, cfg, outcome, startedAt); err != nil {
			// History is a convenience; a broken database must not turn a
			// healthy run into a failure.
			log.Warn("failed to record run history", slog.String("error", err.Error()))
		}
	}

	log.Info("maintenance run finished",
		slog.String(logging.FieldRunID, runID),
		slog.Int("findings", checks.TotalFindings(results)),
		slog.Bool("notified", outcome.Notified),
	)
	return outcome, nil
}

// NewChecker builds the named checker from config, regardless of whether
// the check is enabled. The single-check CLI commands use it directly.
func NewChecker(cfg *config.Config, logger *slog.Logger, name string) (checks.Checker, error) {
	switch name {
	case systemd.CheckName:
		client, err := systemd.New(cfg.SystemctlBinary(), systemd.WithUserUnits(cfg.Units.UserUnits))
		if err != nil {
			return nil, err
		}
		return systemd.NewChecker(client), nil
	case journal.CheckName:
		list, err := allowlist.Load(cfg.Journal.AllowlistPath)
		if err != nil {
			return nil, err
		}
		client, err := journal.New(cfg.JournalctlBinary(), cfg.Journal.Priority)
		if err != nil {
			return nil, err
		}
		return journal.NewChecker(client, list, cfg.JournalLogPath(), logger), nil
	case packages.CheckName:
		if cfg.Updates.Backend == "none" {
			return nil, fmt.Errorf("package update checks are disabled (backend %q)", cfg.Updates.Backend)
		}
		client, err := packages.New(cfg.Updates.Backend)
		if err != nil {
			return nil, err
		}
		return packages.NewChecker(client), nil
	default:
		return nil, fmt.Errorf("unknown check %q", name)
	}
}

func buildCheckers(cfg *config.Config, logger *slog.Logger) ([]checks.Checker, error) {
	var names []string
	if cfg.Units.Enabled {
		names = append(names, systemd.CheckName)
	}
	if cfg.Journal.Enabled {
		names = append(names, journal.CheckName)
	}
	if cfg.Updates.Enabled && cfg.Updates.Backend != "none" {
		names = append(names, packages.CheckName)
	}

	checkers := make([]checks.Checker, 0, len(names))
	for _, name := range names {
		checker, err := NewChecker(cfg, logger, name)
		if err != nil {
			return nil, err
		}
		checkers = append(checkers, checker)
	}
	return checkers, nil
}

// deliver sends every message and reports whether at least one reached the
// transport. A noop service delivers nothing by definition.
func deliver(ctx context.Context, log *slog.Logger, svc notify.Service, executor services.Executor, messages []report.Message) bool {
	if svc.Transport() == "noop" {
		return false
	}
	delivered := false
	for _, msg := range messages {
		resp, err := svc.Notify(ctx, msg.Notification)
		if err != nil {
			log.Warn("failed to send notification",
				slog.String(logging.FieldCheck, msg.Check),
				slog.String("error", err.Error()),
			)
			continue
		}
		delivered = true
		if resp.ActionInvoked && len(msg.Investigate) > 0 {
			log.Info("notification action invoked", slog.String(logging.FieldCheck, msg.Check))
			if _, err := executor.Output(ctx, msg.Investigate[0], msg.Investigate[1:]...); err != nil {
				log.Warn("failed to spawn investigation command",
					slog.String("command", msg.Investigate[0]),
					slog.String("error", err.Error()),
				)
			}
		}
	}
	return delivered
}

func record(ctx context.Context, cfg *config.Config, outcome *Outcome, startedAt time.Time) error {
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordRun(ctx, history.Run{
		RunID:      outcome.RunID,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Notified:   outcome.Notified,
	}, outcome.Results)
	return err
}
