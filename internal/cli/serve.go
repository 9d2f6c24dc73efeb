package cli

import (
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/barbershop_booking/internal/app"
	"github.com/Freeeeeet/barbershop_booking/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API, background jobs and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := app.NewLogger(cfg.Environment, false)
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("Starting barbershop booking service",
				zap.String("version", Version),
				zap.String("environment", cfg.Environment),
				zap.Bool("in_memory", opts.inMemory),
				zap.Bool("telegram", cfg.TelegramEnabled()))

			a, err := app.New(ctx, cfg, logger, app.Options{InMemory: opts.inMemory, WithBot: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Migrate(ctx); err != nil {
				return err
			}

			return a.Run(ctx)
		},
	}
}
