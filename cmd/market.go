package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonandersen/apca/internal/output"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// newClockCmd creates the clock command with the given options.
func newClockCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Show whether the market is open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			clock, err := opts.client.GetClock(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch clock: %w", err)
			}

			state := "closed"
			if clock.IsOpen {
				state = "open"
			}
			return opts.formatter(cmd).Detail([]output.Field{
				{Label: "Market", Value: state},
				{Label: "Time", Value: clock.Timestamp.Format(time.RFC3339)},
				{Label: "Next Open", Value: clock.NextOpen.Format(time.RFC3339)},
				{Label: "Next Close", Value: clock.NextClose.Format(time.RFC3339)},
			}, clock)
		},
	}

	cmd.SilenceUsage = true

	return cmd
}

// newCalendarCmd creates the calendar command with the given options.
func newCalendarCmd(opts *apiOptions) *cobra.Command {
	var start, end string
	var settlement bool

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List market days and session hours",
		Long: `List trading days with open and close times (US Eastern).

Examples:
  apca calendar --start 2025-01-01 --end 2025-01-31
  apca calendar --start 2025-01-01 --end 2025-01-07 --settlement`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &alpaca.CalendarParams{}
			var err error
			if params.Start, err = dateFlag("start", start); err != nil {
				return err
			}
			if params.End, err = dateFlag("end", end); err != nil {
				return err
			}
			if settlement {
				params.DateType = alpaca.Ptr(alpaca.CalendarDateSettlement)
			}

			ctx, cancel := newContext()
			defer cancel()

			days, err := opts.client.GetCalendar(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to fetch calendar: %w", err)
			}

			headers := []string{"Date", "Open", "Close", "Session Open", "Session Close"}
			rows := make([][]string, 0, len(days))
			for _, d := range days {
				rows = append(rows, []string{d.Date.String(), d.Open, d.Close, d.SessionOpen, d.SessionClose})
			}
			return opts.formatter(cmd).List("", headers, rows, days)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&settlement, "settlement", false, "Interpret dates as settlement dates")
	cmd.SilenceUsage = true

	return cmd
}

func init() {
	addAPICommand(newClockCmd)
	addAPICommand(newCalendarCmd)
}
