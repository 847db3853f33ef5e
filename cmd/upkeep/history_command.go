package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"upkeep/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent maintenance runs",
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

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No maintenance runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.FinishedAt.Local().Format("2006-01-02 15:04:05"),
					strconv.Itoa(run.Findings),
					yesNo(run.Notified),
					summarizeChecks(run.Checks),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Finished", "Findings", "Notified", "Checks"},
				rows,
				1, // findings count reads better right-aligned
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

func summarizeChecks(records []history.CheckRecord) string {
	if len(records) == 0 {
		return "-"
	}
	summary := ""
	for i, rec := range records {
		if i > 0 {
			summary += ", "
		}
		switch rec.Status {
		case history.StatusOK:
			summary += rec.Check + " ok"
		case history.StatusUnavailable:
			summary += rec.Check + " n/a"
		default:
			summary += fmt.Sprintf("%s %d", rec.Check, rec.Findings)
		}
	}
	return summary
}
