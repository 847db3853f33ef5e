package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"upkeep/internal/logging"
	"upkeep/internal/maintenance"
	"upkeep/internal/services/journal"
	"upkeep/internal/services/packages"
	"upkeep/internal/services/systemd"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single check and print its findings",
	}

	checkCmd.AddCommand(newSingleCheckCommand(ctx, systemd.CheckName, "Report systemd units in a failed state"))
	checkCmd.AddCommand(newSingleCheckCommand(ctx, journal.CheckName, "Report boot journal errors not covered by the allowlist"))
	checkCmd.AddCommand(newSingleCheckCommand(ctx, packages.CheckName, "Report pending package upgrades"))

	return checkCmd
}

func newSingleCheckCommand(ctx *commandContext, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			checker, err := maintenance.NewChecker(cfg, logger, name)
			if err != nil {
				return err
			}
			findings, err := checker.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("run %s check: %w", name, err)
			}

			out := cmd.OutOrStdout()
			if len(findings) == 0 {
				fmt.Fprintf(out, "%s: no findings\n", name)
				return nil
			}
			rows := make([][]string, 0, len(findings))
			for _, finding := range findings {
				rows = append(rows, []string{finding.Summary, finding.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Finding", "Detail"}, rows))
			return nil
		},
	}
}
