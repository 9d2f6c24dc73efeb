package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete cancelled reservations and reservations older than yesterday",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, logger, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer a.Close()

			result, err := a.Cleanup.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed %d reservations (cancelled: %d, expired: %d)\n",
				result.Total, result.Cancelled, result.Expired)
			return nil
		},
	}
}
