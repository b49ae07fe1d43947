package cmd

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jonandersen/apca/internal/output"
	"github.com/jonandersen/apca/pkg/alpaca"
)

var (
	periodPattern    = regexp.MustCompile(`^(\d+)(D|W|M|A|Y)$`)
	timeframePattern = regexp.MustCompile(`^(\d+)(MIN|T|H|D)$`)
)

// parsePeriod accepts e.g. 7D, 2W, 1M, 1A (1Y is an alias for 1A).
func parsePeriod(s string) (alpaca.HistoryPeriod, error) {
	m := periodPattern.FindStringSubmatch(strings.ToUpper(s))
	if m == nil {
		return alpaca.HistoryPeriod{}, fmt.Errorf("invalid --period %q (use e.g. 7D, 2W, 1M, 1A)", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return alpaca.HistoryPeriod{}, fmt.Errorf("invalid --period %q: count must be positive", s)
	}
	switch m[2] {
	case "D":
		return alpaca.PeriodDays(n), nil
	case "W":
		return alpaca.PeriodWeeks(n), nil
	case "M":
		return alpaca.PeriodMonths(n), nil
	default:
		return alpaca.PeriodYears(n), nil
	}
}

// parseTimeFrame accepts 1Min, 5Min, 15Min, 1H and 1D.
func parseTimeFrame(s string) (alpaca.TimeFrame, error) {
	m := timeframePattern.FindStringSubmatch(strings.ToUpper(s))
	if m == nil {
		return alpaca.TimeFrame{}, fmt.Errorf("invalid --timeframe %q (use 1Min, 5Min, 15Min, 1H, 1D)", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return alpaca.TimeFrame{}, fmt.Errorf("invalid --timeframe %q: count must be positive", s)
	}
	switch m[2] {
	case "H":
		return alpaca.TimeFrameHours(n), nil
	case "D":
		return alpaca.TimeFrameDays(n), nil
	default:
		return alpaca.TimeFrameMinutes(n), nil
	}
}

// parseTimeFlag accepts a date or an RFC 3339 timestamp.
func parseTimeFlag(flag, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	d, err := dateFlag(flag, s)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: use YYYY-MM-DD or RFC 3339", flag, s)
	}
	t := d.In(time.UTC)
	return &t, nil
}

type historyFlags struct {
	period, timeframe, start, end string
	pnlReset, intraday, cashflow  string
	extendedHours                 bool
}

func (f historyFlags) params(cmd *cobra.Command) (*alpaca.PortfolioHistoryParams, error) {
	params := &alpaca.PortfolioHistoryParams{}
	if f.period != "" {
		p, err := parsePeriod(f.period)
		if err != nil {
			return nil, err
		}
		params.Period = &p
	}
	if f.timeframe != "" {
		tf, err := parseTimeFrame(f.timeframe)
		if err != nil {
			return nil, err
		}
		params.TimeFrame = &tf
	}
	var err error
	if params.Start, err = parseTimeFlag("start", f.start); err != nil {
		return nil, err
	}
	if params.End, err = parseTimeFlag("end", f.end); err != nil {
		return nil, err
	}
	if params.Start != nil && params.End != nil && params.End.Before(*params.Start) {
		return nil, fmt.Errorf("--end must not be before --start")
	}
	if f.pnlReset != "" {
		r, err := enumFlag("pnl-reset", f.pnlReset, alpaca.PnLResetPerDay, alpaca.PnLResetNoReset)
		if err != nil {
			return nil, err
		}
		params.PnLReset = &r
	}
	if f.intraday != "" {
		r, err := enumFlag("intraday", f.intraday, alpaca.IntradayMarketHours, alpaca.IntradayExtendedHours, alpaca.IntradayContinuous)
		if err != nil {
			return nil, err
		}
		params.IntradayReporting = &r
	}
	if f.cashflow != "" {
		var c alpaca.CashflowTypes
		switch strings.ToUpper(f.cashflow) {
		case string(alpaca.CashflowAll):
			c = alpaca.CashflowAll
		case string(alpaca.CashflowNone):
			c = alpaca.CashflowNone
		default:
			c = alpaca.CashflowActivities(upper(strings.Split(f.cashflow, ","))...)
		}
		params.CashflowTypes = &c
	}
	if cmd.Flags().Changed("extended-hours") {
		params.ExtendedHours = &f.extendedHours
	}
	return params, nil
}

// newHistoryCmd creates the history command with the given options.
func newHistoryCmd(opts *apiOptions) *cobra.Command {
	var f historyFlags

	cmd := &cobra.Command{
		Use:   "history",
		Short: "View portfolio equity history",
		Long: `View the account's equity and profit/loss over time.

Examples:
  apca history                                   # Last month, daily
  apca history --period 1A --timeframe 1D
  apca history --period 1D --timeframe 15Min --extended-hours
  apca history --start 2025-01-01 --end 2025-03-31
  apca history --cashflow DIV,FEE`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := f.params(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := newContext()
			defer cancel()

			h, err := opts.client.GetPortfolioHistory(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to fetch portfolio history: %w", err)
			}
			return printHistory(cmd, opts, h)
		},
	}

	cmd.Flags().StringVarP(&f.period, "period", "p", "", "Span, e.g. 7D, 2W, 1M, 1A (API default 1M)")
	cmd.Flags().StringVarP(&f.timeframe, "timeframe", "t", "", "Resolution: 1Min, 5Min, 15Min, 1H, 1D")
	cmd.Flags().StringVar(&f.start, "start", "", "Start (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&f.end, "end", "", "End (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&f.pnlReset, "pnl-reset", "", "Profit/loss reset: per_day, no_reset")
	cmd.Flags().StringVar(&f.intraday, "intraday", "", "Intraday sessions: market_hours, extended_hours, continuous")
	cmd.Flags().StringVar(&f.cashflow, "cashflow", "", "Cashflow types: ALL, NONE, or activities such as DIV,FEE")
	cmd.Flags().BoolVar(&f.extendedHours, "extended-hours", false, "Include extended hours in intraday data")
	cmd.MarkFlagsMutuallyExclusive("period", "start")
	cmd.SilenceUsage = true

	return cmd
}

func printHistory(cmd *cobra.Command, opts *apiOptions, h *alpaca.PortfolioHistory) error {
	if opts.jsonMode {
		return opts.formatter(cmd).Print(h)
	}
	if len(h.Timestamp) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No history")
		return nil
	}

	headers := []string{"Time", "Equity", "P/L", "P/L %"}
	times := h.Times()
	rows := make([][]string, 0, len(times))
	for i, t := range times {
		rows = append(rows, []string{
			output.Time(&t),
			output.Money(decimal.NewFromFloat(at(h.Equity, i))),
			output.GainLoss(decimal.NewFromFloat(at(h.ProfitLoss, i))),
			output.Percent(decimal.NewFromFloat(at(h.ProfitLossPct, i))),
		})
	}
	if err := opts.formatter(cmd).Table(headers, rows); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nBase value: %s  Timeframe: %s\n",
		output.Money(h.BaseValue.Decimal()), h.TimeFrame)
	return nil
}

// at tolerates series shorter than Timestamp.
func at(series []float64, i int) float64 {
	if i < len(series) {
		return series[i]
	}
	return 0
}

func init() {
	addAPICommand(newHistoryCmd)
}
