package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"realty-crm/internal/app"
	"realty-crm/internal/compensation"

	"github.com/spf13/cobra"
)

var (
	salaryFrom string
	salaryTo   string
)

var salaryCmd = &cobra.Command{
	Use:   "salary [user-id]",
	Short: "Compute a user's performance pay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := compensation.ParsePeriod(salaryFrom, salaryTo)
		if err != nil {
			return err
		}

		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			b, err := a.Compensation.Salary(ctx, args[0], period)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), b)
			}
			return printBreakdown(cmd.OutOrStdout(), b)
		})
	},
}

func init() {
	salaryCmd.Flags().StringVar(&salaryFrom, "from", "", "first day, YYYY-MM-DD")
	salaryCmd.Flags().StringVar(&salaryTo, "to", "", "last day, YYYY-MM-DD")
}

func printBreakdown(out io.Writer, b *compensation.Breakdown) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tCOUNT\tPAY")
	fmt.Fprintf(w, "calls\t%d\t%s\n", b.Counts.Calls, b.CallPay.StringFixed(2))
	fmt.Fprintf(w, "meetings\t%d\t%s\n", b.Counts.Meetings, b.MeetingPay.StringFixed(2))
	fmt.Fprintf(w, "follow-ups\t%d\t%s\n", b.Counts.FollowUps, b.FollowUpPay.StringFixed(2))
	fmt.Fprintf(w, "travel (km)\t%s\t%s\n", b.Counts.TravelKm.String(), b.TravelPay.StringFixed(2))
	fmt.Fprintf(w, "site visits\t%d\t-\n", b.Counts.SiteVisits)
	fmt.Fprintf(w, "approved reports\t%d\t-\n", b.Counts.ApprovedReports)
	fmt.Fprintf(w, "TOTAL\t\t%s\n", b.Total.StringFixed(2))
	return w.Flush()
}
