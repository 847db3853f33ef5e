package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"upkeep/internal/logging"
	"upkeep/internal/notify"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Notify.Enabled {
				return fmt.Errorf("notifications are disabled in the configuration")
			}

			svc := notify.NewService(cmd.Context(), cfg, logging.NewNop())
			if svc.Transport() == "noop" {
				return fmt.Errorf("no notification transport reachable (is a notification daemon running?)")
			}

			_, err = svc.Notify(cmd.Context(), notify.Notification{
				Summary: "Upkeep test notification",
				Body:    "Desktop notifications are working.",
				Icon:    "dialog-information",
				Urgency: notify.UrgencyNormal,
			})
			if err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test notification sent via %s\n", svc.Transport())
			return nil
		},
	}
}
