package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonandersen/apca/internal/output"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// maxContractPages bounds --all pagination.
const maxContractPages = 50

// chainFilter holds the client-side filters of the options list command.
type chainFilter struct {
	minOI     int
	callsOnly bool
	putsOnly  bool
}

// filterContracts applies f to contracts. Contracts without open interest
// data are dropped when minOI is set.
func filterContracts(contracts []alpaca.OptionContract, f chainFilter) []alpaca.OptionContract {
	if f.minOI <= 0 {
		return contracts
	}
	filtered := make([]alpaca.OptionContract, 0, len(contracts))
	for _, c := range contracts {
		if c.OpenInterest == nil || c.OpenInterest.Int() < f.minOI {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// sortContracts orders by expiration, then strike, then calls before puts.
func sortContracts(contracts []alpaca.OptionContract) {
	sort.SliceStable(contracts, func(i, j int) bool {
		a, b := contracts[i], contracts[j]
		if a.ExpirationDate != b.ExpirationDate {
			return a.ExpirationDate.String() < b.ExpirationDate.String()
		}
		if a.StrikePrice != b.StrikePrice {
			return a.StrikePrice < b.StrikePrice
		}
		return a.Type < b.Type
	})
}

// newOptionsCmd creates the options command with the given options.
func newOptionsCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Browse option contracts",
		Long: `List option contracts for an underlying or look up a single contract.

Examples:
  apca options list AAPL --expiration 2025-11-14
  apca options list AAPL --calls --min-strike 250 --max-strike 300
  apca options list AAPL,MSFT --expires-before 2025-12-31 --all
  apca options get AAPL251114C00275000`,
	}

	cmd.AddCommand(newOptionsListCmd(opts))
	cmd.AddCommand(newOptionsGetCmd(opts))

	return cmd
}

func newOptionsListCmd(opts *apiOptions) *cobra.Command {
	var filter chainFilter
	var expiration, after, before, minStrike, maxStrike, root, style, pageToken string
	var limit int
	var all, deliverables bool

	cmd := &cobra.Command{
		Use:   "list UNDERLYING[,UNDERLYING...]",
		Short: "List option contracts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.callsOnly && filter.putsOnly {
				return fmt.Errorf("use only one of --calls and --puts")
			}

			params := &alpaca.ListOptionContractsParams{
				UnderlyingSymbols: alpaca.CommaSeparated(upper(strings.Split(args[0], ","))),
				ShowDeliverables:  deliverables,
				RootSymbol:        strings.ToUpper(root),
				PageToken:         pageToken,
			}
			switch {
			case filter.callsOnly:
				params.Type = alpaca.Ptr(alpaca.OptionTypeCall)
			case filter.putsOnly:
				params.Type = alpaca.Ptr(alpaca.OptionTypePut)
			}
			if style != "" {
				s, err := enumFlag("style", style, alpaca.OptionStyleAmerican, alpaca.OptionStyleEuropean)
				if err != nil {
					return err
				}
				params.Style = &s
			}
			for _, d := range []struct {
				flag, value string
				dst         **alpaca.Date
			}{
				{"expiration", expiration, &params.ExpirationDate},
				{"expires-after", after, &params.ExpirationDateGTE},
				{"expires-before", before, &params.ExpirationDateLTE},
			} {
				if d.value == "" {
					continue
				}
				date, err := dateFlag(d.flag, d.value)
				if err != nil {
					return err
				}
				*d.dst = &date
			}
			var err error
			if params.StrikePriceGTE, err = moneyFlag("min-strike", minStrike); err != nil {
				return err
			}
			if params.StrikePriceLTE, err = moneyFlag("max-strike", maxStrike); err != nil {
				return err
			}
			if limit > 0 {
				params.Limit = &limit
			}
			return runOptionsList(cmd, opts, params, filter, all)
		},
	}

	cmd.Flags().StringVarP(&expiration, "expiration", "e", "", "Exact expiration date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&after, "expires-after", "", "Earliest expiration date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&before, "expires-before", "", "Latest expiration date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&minStrike, "min-strike", "", "Minimum strike price")
	cmd.Flags().StringVar(&maxStrike, "max-strike", "", "Maximum strike price")
	cmd.Flags().StringVar(&root, "root", "", "Root symbol")
	cmd.Flags().StringVar(&style, "style", "", "Exercise style: american, european")
	cmd.Flags().BoolVar(&filter.callsOnly, "calls", false, "Calls only")
	cmd.Flags().BoolVar(&filter.putsOnly, "puts", false, "Puts only")
	cmd.Flags().IntVar(&filter.minOI, "min-oi", 0, "Minimum open interest")
	cmd.Flags().IntVar(&limit, "limit", 0, "Contracts per page (API default 100, max 10000)")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Continue from a previous page")
	cmd.Flags().BoolVar(&all, "all", false, "Follow pagination until the last page")
	cmd.Flags().BoolVar(&deliverables, "deliverables", false, "Include deliverables in JSON output")
	cmd.SilenceUsage = true

	return cmd
}

func runOptionsList(cmd *cobra.Command, opts *apiOptions, params *alpaca.ListOptionContractsParams, filter chainFilter, all bool) error {
	ctx, cancel := newContext()
	defer cancel()

	var contracts []alpaca.OptionContract
	var next *string
	for page := 0; ; page++ {
		resp, err := opts.client.ListOptionContracts(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to list option contracts: %w", err)
		}
		contracts = append(contracts, resp.OptionContracts...)
		next = resp.NextPageToken
		if !all || next == nil || *next == "" || page+1 >= maxContractPages {
			break
		}
		params.PageToken = *next
	}

	contracts = filterContracts(contracts, filter)
	sortContracts(contracts)

	if opts.jsonMode {
		return opts.formatter(cmd).Print(alpaca.OptionContractsPage{OptionContracts: contracts, NextPageToken: next})
	}

	if len(contracts) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No option contracts")
		return nil
	}

	headers := []string{"Symbol", "Type", "Strike", "Expiration", "Style", "Open Interest", "Close"}
	rows := make([][]string, 0, len(contracts))
	for _, c := range contracts {
		oi, closePrice := "-", "-"
		if c.OpenInterest != nil {
			oi = output.Count(int64(c.OpenInterest.Int()))
		}
		if c.ClosePrice != nil {
			closePrice = output.Money(c.ClosePrice.Decimal())
		}
		rows = append(rows, []string{
			c.Symbol, string(c.Type), output.Money(c.StrikePrice.Decimal()),
			c.ExpirationDate.String(), string(c.Style), oi, closePrice,
		})
	}
	if err := opts.formatter(cmd).Table(headers, rows); err != nil {
		return err
	}
	if next != nil && *next != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nMore contracts available: --page-token %s\n", *next)
	}
	return nil
}

func newOptionsGetCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get SYMBOL_OR_ID",
		Short: "Show one option contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			c, err := opts.client.GetOptionContract(ctx, strings.ToUpper(args[0]))
			if err != nil {
				return fmt.Errorf("failed to get option contract: %w", err)
			}

			fields := []output.Field{
				{Label: "Symbol", Value: c.Symbol},
				{Label: "Name", Value: c.Name},
				{Label: "Underlying", Value: c.UnderlyingSymbol},
				{Label: "Type", Value: string(c.Type)},
				{Label: "Style", Value: string(c.Style)},
				{Label: "Strike", Value: output.Money(c.StrikePrice.Decimal())},
				{Label: "Expiration", Value: c.ExpirationDate.String()},
				{Label: "Multiplier", Value: c.Multiplier.String()},
				{Label: "Status", Value: string(c.Status)},
				{Label: "Tradable", Value: yesNo(c.Tradable)},
			}
			if c.OpenInterest != nil {
				fields = append(fields, output.Field{Label: "Open Interest", Value: output.Count(int64(c.OpenInterest.Int()))})
			}
			for _, d := range c.Deliverables {
				fields = append(fields, output.Field{
					Label: "Deliverable",
					Value: fmt.Sprintf("%s %s %s (%s)", d.Amount, d.Type, d.Symbol, d.SettlementMethod),
				})
			}
			return opts.formatter(cmd).Detail(fields, c)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func init() {
	addAPICommand(newOptionsCmd)
}
