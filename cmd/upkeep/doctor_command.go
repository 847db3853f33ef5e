package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"upkeep/internal/config"
	"upkeep/internal/deps"
	"upkeep/internal/logging"
	"upkeep/internal/notify"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, state paths, and notification delivery",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			problems := 0

			for _, line := range renderSectionHeader("External tools", colorize) {
				fmt.Fprintln(out, line)
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				rows = append(rows, []string{
					status.Name,
					status.Command,
					dependencyState(status),
					status.Detail,
				})
				if !status.Available && !status.Optional {
					problems++
				}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Dependency", "Command", "Status", "Detail"},
				rows,
			))

			for _, line := range renderSectionHeader("State", colorize) {
				fmt.Fprintln(out, line)
			}
			stateStatus := deps.CheckStateDir(cfg.Paths.StateDir)
			kind := statusOK
			if !stateStatus.Available {
				kind = statusError
				problems++
			}
			fmt.Fprintln(out, renderStatusLine("State directory", kind, stateStatus.Detail, colorize))

			for _, line := range renderSectionHeader("Notifications", colorize) {
				fmt.Fprintln(out, line)
			}
			transportKind, transportMessage := probeNotifications(cmd, cfg)
			fmt.Fprintln(out, renderStatusLine("Transport", transportKind, transportMessage, colorize))

			if problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", problems)
			}
			fmt.Fprintln(out, "All dependencies look good")
			return nil
		},
	}
}

func dependencyState(status deps.Status) string {
	switch {
	case status.Available:
		return "ok"
	case status.Optional:
		return "missing (optional)"
	default:
		return "missing"
	}
}

func probeNotifications(cmd *cobra.Command, cfg *config.Config) (statusKind, string) {
	if !cfg.Notify.Enabled {
		return statusInfo, "disabled in configuration"
	}
	transport := notify.NewService(cmd.Context(), cfg, logging.NewNop()).Transport()
	if transport == "noop" {
		return statusWarn, "no notification transport reachable"
	}
	return statusOK, transport
}
