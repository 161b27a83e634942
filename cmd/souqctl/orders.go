package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"souq/internal/app"
)

func newOrdersCmd() *cobra.Command {
	ordersCmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and move orders",
	}

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				list, err := a.Admin.ListOrders(ctx, status)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NUMBER\tID\tSTATUS\tITEMS\tTOTAL\tCREATED")
				for _, o := range list {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\n",
						o.Number, o.ID, o.Status, len(o.Items), o.Total, o.CreatedAt.Format("2006-01-02 15:04"))
				}
				return w.Flush()
			})
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "only orders in this status")

	var note string
	setCmd := &cobra.Command{
		Use:   "set-status <order-id> <status>",
		Short: "Move an order to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				o, err := a.Admin.SetOrderStatus(ctx, args[0], args[1], note)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "order %s is now %s\n", o.Number, o.Status)
				return nil
			})
		},
	}
	setCmd.Flags().StringVar(&note, "note", "", "note kept in the order history")

	ordersCmd.AddCommand(listCmd, setCmd)
	return ordersCmd
}
