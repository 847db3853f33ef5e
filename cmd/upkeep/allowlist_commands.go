package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"upkeep/internal/allowlist"
)

func newAllowlistCommand(ctx *commandContext) *cobra.Command {
	allowlistCmd := &cobra.Command{
		Use:   "allowlist",
		Short: "Inspect the journal error allowlist",
	}

	allowlistCmd.AddCommand(newAllowlistListCommand(ctx))
	allowlistCmd.AddCommand(newAllowlistTestCommand(ctx))

	return allowlistCmd
}

func newAllowlistListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List allowlist patterns by identifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			list, err := allowlist.Load(cfg.Journal.AllowlistPath)
			if err != nil {
				return fmt.Errorf("load allowlist: %w", err)
			}

			out := cmd.OutOrStdout()
			if list.Empty() {
				fmt.Fprintf(out, "Allowlist is empty (%s)\n", cfg.Journal.AllowlistPath)
				return nil
			}

			var rows [][]string
			for _, entry := range list.Patterns() {
				for _, pattern := range entry.Patterns {
					rows = append(rows, []string{entry.Identifier, pattern})
				}
			}
			fmt.Fprintln(out, renderTable([]string{"Identifier", "Pattern"}, rows))
			return nil
		},
	}
}

func newAllowlistTestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test <identifier> <message>",
		Short: "Check whether a journal message would be allowed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			list, err := allowlist.Load(cfg.Journal.AllowlistPath)
			if err != nil {
				return fmt.Errorf("load allowlist: %w", err)
			}

			identifier, message := args[0], args[1]
			out := cmd.OutOrStdout()
			if list.Allows(identifier, message) {
				fmt.Fprintf(out, "allowed: %s: %s\n", identifier, message)
			} else {
				fmt.Fprintf(out, "not allowed: %s: %s (would be reported)\n", identifier, message)
			}
			return nil
		},
	}
}
