package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"souq/internal/app"
)

func newAdminCmd() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	var name string
	createCmd := &cobra.Command{
		Use:   "create <email> <password>",
		Short: "Create an admin account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				u, err := a.Accounts.CreateAdmin(ctx, args[0], args[1], name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", u.Email, u.ID)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&name, "name", "Admin", "display name")
	adminCmd.AddCommand(createCmd)
	return adminCmd
}
