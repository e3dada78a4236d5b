package main

import (
	"context"
	"fmt"
	"time"

	"realty-crm/internal/app"

	"github.com/spf13/cobra"
)

var remindAt string

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Enqueue reminders for upcoming appointments",
	Long: `Scans for appointments starting within the configured reminder window and
notifies both the customer and the agent. Meant to run from cron every few minutes;
overlapping runs send duplicate reminders.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		if remindAt != "" {
			t, err := time.Parse(time.RFC3339, remindAt)
			if err != nil {
				return fmt.Errorf("--at must be RFC 3339: %w", err)
			}
			now = t
		}

		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			res, err := a.Reminders.Scan(ctx, now)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d appointments, %d reminders queued, %d rejected\n",
				res.Appointments, res.Enqueued, res.Rejected)
			return nil
		})
	},
}

func init() {
	remindCmd.Flags().StringVar(&remindAt, "at", "", "scan as if the time were this RFC 3339 instant")
}
