package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"upkeep/internal/checks"
	"upkeep/internal/logging"
	"upkeep/internal/maintenance"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var noNotify bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run all enabled maintenance checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			outcome, err := maintenance.Run(signalCtx, cfg, logger, maintenance.Options{
				Notify: !noNotify,
			})
			if err != nil {
				return err
			}

			printOutcome(cmd, outcome)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noNotify, "no-notify", false, "Print findings without sending desktop notifications")
	return cmd
}

func printOutcome(cmd *cobra.Command, outcome *maintenance.Outcome) {
	out := cmd.OutOrStdout()
	for _, result := range outcome.Results {
		switch {
		case result.Unavailable:
			fmt.Fprintf(out, "%s: unavailable (%s)\n", result.Check, result.Detail)
		case len(result.Findings) == 0:
			fmt.Fprintf(out, "%s: ok\n", result.Check)
		default:
			fmt.Fprintf(out, "%s: %d finding(s)\n", result.Check, len(result.Findings))
			for _, finding := range result.Findings {
				fmt.Fprintf(out, "  %s\n", finding.Summary)
			}
		}
	}
	if checks.TotalFindings(outcome.Results) == 0 {
		fmt.Fprintln(out, "All checks passed")
	}
	if outcome.Notified {
		fmt.Fprintf(out, "Notifications sent via %s\n", outcome.Transport)
	}
}
