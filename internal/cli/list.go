package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Freeeeeet/barbershop_booking/internal/model"
	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var date string
	var recurring bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reservations, optionally for one date",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, logger, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer a.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if recurring {
				list, err := a.Recurring.List(ctx)
				if err != nil {
					return err
				}
				return writeRecurring(out, list)
			}

			var list []*model.Reservation
			if date != "" {
				d, err := model.ParseDate(date)
				if err != nil {
					return err
				}
				list, err = a.Reservations.ListByDate(ctx, d)
				if err != nil {
					return err
				}
			} else {
				list, err = a.Reservations.List(ctx)
				if err != nil {
					return err
				}
			}
			return writeReservations(out, list)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "only reservations on this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "list recurring reservations instead")
	return cmd
}

func writeReservations(out io.Writer, list []*model.Reservation) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(out, "no reservations")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSLOT\tSTATUS\tNAME\tPHONE\tSERVICE")
	for _, res := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			res.ID, model.DateKey(res.Date), res.TimeSlot, res.Status, res.Name, res.Phone, res.Service)
	}
	return w.Flush()
}

func writeRecurring(out io.Writer, list []*model.RecurringReservation) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(out, "no recurring reservations")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWEEKDAY\tSLOT\tSTATUS\tNAME\tPHONE\tSERVICE")
	for _, rec := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.ID, model.WeekdayName(rec.Weekday), rec.TimeSlot, rec.Status, rec.Name, rec.Phone, rec.Service)
	}
	return w.Flush()
}
