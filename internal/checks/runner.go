package checks

import (
	"context"
	"log/slog"
	"sync"

	"upkeep/internal/logging"
)

// Checker is one independent health check.
type Checker interface {
	// Name identifies the check in findings, logs, and history records.
	Name() string
	// Run performs the check. An error means the underlying tool was
	// unavailable or unusable; it never aborts the other checks.
	Run(ctx context.Context) ([]Finding, error)
}

// Runner executes a fixed set of checks and joins their results.
type Runner struct {
	checkers []Checker
	logger   *slog.Logger
}

// NewRunner builds a runner over the provided checkers. Result order follows
// checker order regardless of completion order.
func NewRunner(logger *slog.Logger, checkers ...Checker) *Runner {
	return &Runner{
		checkers: checkers,
		logger:   logging.NewComponentLogger(logger, "checks"),
	}
}

// Run executes every check concurrently. Checks share no mutable state, so
// each writes only its own result slot.
func (r *Runner) Run(ctx context.Context) []Result {
	results := make([]Result, len(r.checkers))
	var wg sync.WaitGroup
	for i, checker := range r.checkers {
		wg.Add(1)
		go func(i int, checker Checker) {
			defer wg.Done()
			results[i] = r.runOne(ctx, checker)
		}(i, checker)
	}
	wg.Wait()
	return results
}

func (r *Runner) runOne(ctx context.Context, checker Checker) Result {
	name := checker.Name()
	log := r.logger.With(slog.String(logging.FieldCheck, name))
	log.Debug("check started")

	findings, err := checker.Run(ctx)
	if err != nil {
		log.Warn("check unavailable", slog.String("error", err.Error()))
		return Unavailable(name, err)
	}

	log.Info("check complete", slog.Int("findings", len(findings)))
	return Result{Check: name, Findings: findings}
}
