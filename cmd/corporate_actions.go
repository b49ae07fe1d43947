package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonandersen/apca/internal/output"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// maxAnnouncementWindow is the widest since/until range the API accepts.
const maxAnnouncementWindow = 90 * 24 * time.Hour

// now is replaced in tests.
var now = time.Now

// newCorporateActionsCmd creates the corporate-actions command with the given options.
func newCorporateActionsCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "corporate-actions",
		Aliases: []string{"ca"},
		Short:   "View corporate action announcements",
		Long: `View dividend, merger, spinoff and split announcements.

Examples:
  apca corporate-actions list --types dividend --symbol AAPL
  apca corporate-actions list --types split,merger --since 2025-01-01 --until 2025-03-01
  apca corporate-actions get 0c6e1a2c-5f0a-4e8b-8d6f-1d8f3c2b9a10`,
	}

	cmd.AddCommand(newAnnouncementListCmd(opts))
	cmd.AddCommand(newAnnouncementGetCmd(opts))

	return cmd
}

func newAnnouncementListCmd(opts *apiOptions) *cobra.Command {
	var types []string
	var since, until, symbol, cusip, dateType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List announcements",
		Long: `List announcements in a date window of at most 90 days.
Without --since and --until the last 30 days are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := announcementParams(types, since, until, symbol, cusip, dateType)
			if err != nil {
				return err
			}

			ctx, cancel := newContext()
			defer cancel()

			actions, err := opts.client.ListAnnouncements(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to list announcements: %w", err)
			}

			headers := []string{"ID", "Type", "Symbol", "Ex Date", "Payable", "Cash", "Rate"}
			rows := make([][]string, 0, len(actions))
			for _, a := range actions {
				rows = append(rows, []string{
					a.ID.String(), string(a.CAType), a.InitiatingSymbol,
					optionalDate(a.ExDate), optionalDate(a.PayableDate),
					output.Money(a.Cash.Decimal()), rate(a),
				})
			}
			return opts.formatter(cmd).List("No announcements", headers, rows, actions)
		},
	}

	cmd.Flags().StringSliceVar(&types, "types", []string{string(alpaca.CorporateActionDividend)}, "Types: dividend, merger, spinoff, split")
	cmd.Flags().StringVar(&since, "since", "", "Window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "Window end (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "Filter by symbol")
	cmd.Flags().StringVar(&cusip, "cusip", "", "Filter by CUSIP")
	cmd.Flags().StringVar(&dateType, "date-type", "", "Date the window applies to: declaration_date, ex_date, record_date, payable_date")
	cmd.SilenceUsage = true

	return cmd
}

// announcementParams builds the list filter, defaulting the window so that
// since and until are always sent.
func announcementParams(types []string, since, until, symbol, cusip, dateType string) (*alpaca.ListAnnouncementsParams, error) {
	params := &alpaca.ListAnnouncementsParams{
		Symbol: strings.ToUpper(symbol),
		Cusip:  strings.ToUpper(cusip),
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("at least one --types value is required")
	}
	for _, t := range types {
		ct, err := enumFlag("types", strings.TrimSpace(t),
			alpaca.CorporateActionDividend, alpaca.CorporateActionMerger,
			alpaca.CorporateActionSpinoff, alpaca.CorporateActionSplit)
		if err != nil {
			return nil, err
		}
		params.CATypes = append(params.CATypes, ct)
	}

	var err error
	if params.Since, err = dateFlag("since", since); err != nil {
		return nil, err
	}
	if params.Until, err = dateFlag("until", until); err != nil {
		return nil, err
	}
	switch {
	case params.Since.IsZero() && params.Until.IsZero():
		today := now().UTC()
		params.Until = alpaca.DateOf(today)
		params.Since = alpaca.DateOf(today.AddDate(0, 0, -30))
	case params.Since.IsZero():
		params.Since = alpaca.DateOf(params.Until.In(time.UTC).AddDate(0, 0, -30))
	case params.Until.IsZero():
		end := params.Since.In(time.UTC).AddDate(0, 0, 30)
		if today := now().UTC(); end.After(today) {
			end = today
		}
		params.Until = alpaca.DateOf(end)
	}

	start, end := params.Since.In(time.UTC), params.Until.In(time.UTC)
	if end.Before(start) {
		return nil, fmt.Errorf("--until must not be before --since")
	}
	if end.Sub(start) > maxAnnouncementWindow {
		return nil, fmt.Errorf("--since to --until spans more than 90 days")
	}

	if dateType != "" {
		dt, err := enumFlag("date-type", dateType,
			alpaca.AnnouncementDateDeclaration, alpaca.AnnouncementDateEx,
			alpaca.AnnouncementDateRecord, alpaca.AnnouncementDatePayable)
		if err != nil {
			return nil, err
		}
		params.DateType = &dt
	}
	return params, nil
}

func optionalDate(d *alpaca.Date) string {
	if d == nil || d.IsZero() {
		return "-"
	}
	return d.String()
}

// rate renders the old:new ratio of splits and mergers.
func rate(a alpaca.CorporateAction) string {
	if a.OldRate == 0 && a.NewRate == 0 {
		return "-"
	}
	return a.NewRate.String() + ":" + a.OldRate.String()
}

func newAnnouncementGetCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show one announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			a, err := opts.client.GetAnnouncement(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get announcement: %w", err)
			}

			return opts.formatter(cmd).Detail([]output.Field{
				{Label: "ID", Value: a.ID.String()},
				{Label: "Type", Value: output.Optional(strings.TrimSpace(string(a.CAType) + " " + a.CASubType))},
				{Label: "Symbol", Value: a.InitiatingSymbol},
				{Label: "CUSIP", Value: output.Optional(a.InitiatingOriginalCusip)},
				{Label: "Target", Value: output.Optional(a.TargetSymbol)},
				{Label: "Declared", Value: optionalDate(a.DeclarationDate)},
				{Label: "Ex Date", Value: optionalDate(a.ExDate)},
				{Label: "Record Date", Value: optionalDate(a.RecordDate)},
				{Label: "Payable", Value: optionalDate(a.PayableDate)},
				{Label: "Cash", Value: output.Money(a.Cash.Decimal())},
				{Label: "Rate", Value: rate(*a)},
			}, a)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func init() {
	addAPICommand(newCorporateActionsCmd)
}
