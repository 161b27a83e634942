// souqctl é a ferramenta de operação da loja: schema, carga de catálogo,
// manutenção e pedidos.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"souq/internal/app"
	"souq/internal/config"
	"souq/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "souqctl",
		Short:         "Operate the souq storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newNormalizeCmd(),
		newStockCmd(),
		newOrdersCmd(),
		newAdminCmd(),
	)
	return root
}

// env carrega config e logger; comandos que mexem no catálogo também abrem o App.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger}, nil
}

// withApp abre o App, roda fn e fecha tudo no fim.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	ctx := cmd.Context()
	a, err := app.New(ctx, e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
