package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"realty-crm/internal/app"
	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/models"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	actorID   string
	actorRole string
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Inspect and administer salary rates",
}

var ratesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the current rate table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			table, err := a.Compensation.Rates(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), table)
			}
			return printRates(cmd.OutOrStdout(), table)
		})
	},
}

var ratesSetCmd = &cobra.Command{
	Use:   "set [name] [rate]",
	Short: "Set one rate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rate, err := decimal.NewFromString(args[1])
		if err != nil {
			return apperrors.NewValidationError(fmt.Sprintf("rate %q is not a number", args[1]))
		}
		actor := models.Actor{ID: actorID, Role: models.Role(actorRole)}

		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			p, err := a.Compensation.SetRate(ctx, actor, models.SalaryParameterName(args[0]), rate)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", p.Name, p.Rate.String())
			return nil
		})
	},
}

func init() {
	ratesSetCmd.Flags().StringVar(&actorID, "actor-id", "", "id of the admin making the change")
	ratesSetCmd.Flags().StringVar(&actorRole, "actor-role", "admin", "role of the admin making the change")
	_ = ratesSetCmd.MarkFlagRequired("actor-id")

	ratesCmd.AddCommand(ratesListCmd, ratesSetCmd)
}

func printRates(out io.Writer, table models.RateTable) error {
	names := make([]string, 0, len(models.SalaryParameterNames))
	for _, n := range models.SalaryParameterNames {
		names = append(names, string(n))
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tRATE")
	for _, n := range names {
		fmt.Fprintf(w, "%s\t%s\n", n, table.Rate(models.SalaryParameterName(n)).String())
	}
	return w.Flush()
}
