package cli

import (
	"context"

	"github.com/Freeeeeet/barbershop_booking/internal/app"
	"github.com/Freeeeeet/barbershop_booking/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Заполняются через -ldflags при сборке
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

type rootOptions struct {
	inMemory bool
}

func NewRoot() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "barbershop",
		Short:         "Barbershop booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&opts.inMemory, "in-memory", false, "keep reservations in process memory instead of Postgres")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newCleanupCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newHashPasswordCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// openApp загружает конфиг и собирает приложение без бота и HTTP-сервера
func openApp(ctx context.Context, opts *rootOptions) (*app.App, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := app.NewLogger(cfg.Environment, true)
	a, err := app.New(ctx, cfg, logger, app.Options{InMemory: opts.inMemory})
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	return a, logger, nil
}
