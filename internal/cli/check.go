package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var date, slot string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check one slot through the availability reconciler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" || slot == "" {
				return errors.New("both --date and --slot are required")
			}
			d, err := model.ParseDate(date)
			if err != nil {
				return err
			}
			if err := model.ValidateTimeSlot(slot); err != nil {
				return err
			}

			a, logger, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer a.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			available := a.Reconciler.IsSlotAvailable(ctx, d, slot)
			fmt.Fprintf(out, "%s %s (%s): %s\n", model.DateKey(d), slot, model.WeekdayName(model.Weekday(d)), availabilityWord(available))

			recurringFree := a.Reconciler.IsRecurringSlotAvailable(ctx, model.Weekday(d), slot)
			fmt.Fprintf(out, "weekly slot: %s\n", availabilityWord(recurringFree))

			hold, err := a.Reconciler.Pending(ctx, d, slot)
			if err != nil {
				return err
			}
			if hold != nil {
				fmt.Fprintf(out, "held until %s\n", hold.ExpiresAt().Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to check (YYYY-MM-DD)")
	cmd.Flags().StringVar(&slot, "slot", "", "time slot to check (HH:MM)")
	return cmd
}

func availabilityWord(available bool) string {
	if available {
		return "available"
	}
	return "unavailable"
}
