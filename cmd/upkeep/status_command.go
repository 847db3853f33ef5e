package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"upkeep/internal/history"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the outcome of the most recent maintenance run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("run history is disabled in the configuration")
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			last, err := store.LastRun(cmd.Context())
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if last == nil {
				fmt.Fprintln(out, "No maintenance runs recorded yet (run `upkeep run` first)")
				return nil
			}

			for _, line := range renderSectionHeader("Last run", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Finished", statusInfo, last.FinishedAt.Local().Format("2006-01-02 15:04:05"), colorize))
			fmt.Fprintln(out, renderStatusLine("Notified", statusInfo, yesNo(last.Notified), colorize))

			for _, line := range renderSectionHeader("Checks", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, rec := range last.Checks {
				fmt.Fprintln(out, renderStatusLine(rec.Check, checkStatusKind(rec), checkStatusMessage(rec), colorize))
			}

			if last.Findings > 0 {
				findings, err := store.FindingsForRun(cmd.Context(), last.ID)
				if err != nil {
					return fmt.Errorf("read findings: %w", err)
				}
				for _, line := range renderSectionHeader("Findings", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, f := range findings {
					fmt.Fprintf(out, "%s%s\n", statusIndent, f.Summary)
				}
			}
			return nil
		},
	}
}

func checkStatusKind(rec history.CheckRecord) statusKind {
	switch rec.Status {
	case history.StatusOK:
		return statusOK
	case history.StatusUnavailable:
		return statusWarn
	default:
		return statusError
	}
}

func checkStatusMessage(rec history.CheckRecord) string {
	switch rec.Status {
	case history.StatusOK:
		return ""
	case history.StatusUnavailable:
		return rec.Detail
	default:
		return fmt.Sprintf("%d finding(s)", rec.Findings)
	}
}
