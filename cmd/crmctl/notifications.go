package main

import (
	"context"
	"fmt"

	"realty-crm/internal/app"

	"github.com/spf13/cobra"
)

var notificationUser string

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Manage in-app notifications",
}

var markReadCmd = &cobra.Command{
	Use:   "mark-read [notification-id]",
	Short: "Mark a user's notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			if err := a.Dispatcher.MarkRead(ctx, args[0], notificationUser); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "notification %s marked read\n", args[0])
			return nil
		})
	},
}

func init() {
	markReadCmd.Flags().StringVar(&notificationUser, "user", "", "owner of the notification")
	_ = markReadCmd.MarkFlagRequired("user")

	notificationsCmd.AddCommand(markReadCmd)
}
