package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"souq/internal/app"
	"souq/internal/catalog"
	"souq/internal/db"
	"souq/internal/importer"
	"souq/internal/stock"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the documents table used by the postgres backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			if e.cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrate")
			}
			conn, err := db.New(e.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("open postgres: %w", err)
			}
			defer conn.Close()
			if err := db.Migrate(cmd.Context(), conn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file, url string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load products from a JSON file or a remote feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (file == "") == (url == "") {
				return fmt.Errorf("use exactly one of --file or --url")
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				im := &importer.Importer{Products: a.Products, Logger: a.Logger}
				var (
					res importer.Result
					err error
				)
				if file != "" {
					f, ferr := os.Open(file)
					if ferr != nil {
						return ferr
					}
					defer f.Close()
					res, err = im.FromReader(ctx, f)
				} else {
					res, err = im.FromURL(ctx, url)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d products, skipped %d\n", res.Imported, res.Skipped)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON file with a product array")
	cmd.Flags().StringVar(&url, "url", "", "paginated product feed URL")
	return cmd
}

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Rewrite products whose category is not normalized",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				n, err := catalog.Renormalize(ctx, a.Products, a.Config.WorkerCount, a.Logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "normalized %d products\n", n)
				return nil
			})
		},
	}
}

func newStockCmd() *cobra.Command {
	stockCmd := &cobra.Command{
		Use:   "stock",
		Short: "Supplier stock maintenance",
	}
	var delay time.Duration
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh product stock from the supplier stock API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if a.Config.StockAPIURL == "" {
					return fmt.Errorf("STOCK_API_URL is required for stock sync")
				}
				api := &stock.Client{URL: a.Config.StockAPIURL, APIKey: a.Config.StockAPIKey}
				res, err := stock.Sync(ctx, a.Products, api, a.Config.WorkerCount, delay, a.Logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "checked %d, updated %d, failed %d\n", res.Checked, res.Updated, res.Failed)
				return nil
			})
		},
	}
	syncCmd.Flags().DurationVar(&delay, "delay", 100*time.Millisecond, "pause before each API call")
	stockCmd.AddCommand(syncCmd)
	return stockCmd
}
