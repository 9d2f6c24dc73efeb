package cli

import (
	"fmt"

	"github.com/Freeeeeet/barbershop_booking/internal/app"
	"github.com/Freeeeeet/barbershop_booking/internal/config"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireDB(); err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := app.NewPool(ctx, cfg.GetDBDSN())
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator, err := app.NewMigrator(pool, cfg.MigrationsDir)
			if err != nil {
				return err
			}
			defer migrator.Close()

			if err := migrator.Run(ctx); err != nil {
				return err
			}

			version, err := migrator.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database at migration version %d\n", version)
			return nil
		},
	}
}
