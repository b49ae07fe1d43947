package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonandersen/apca/internal/output"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// newPositionsCmd creates the positions command with the given options.
func newPositionsCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "positions",
		Aliases: []string{"position"},
		Short:   "View and close open positions",
		Long: `View open positions, close them in whole or in part, or exercise options.

Examples:
  apca positions                          # List open positions
  apca positions get AAPL
  apca positions close AAPL --percentage 50 --yes
  apca positions close-all --cancel-orders --yes
  apca positions exercise AAPL251114C00275000 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPositionList(cmd, opts)
		},
	}

	cmd.SilenceUsage = true

	list := &cobra.Command{
		Use:   "list",
		Short: "List open positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPositionList(cmd, opts)
		},
	}
	list.SilenceUsage = true

	cmd.AddCommand(list)
	cmd.AddCommand(newPositionGetCmd(opts))
	cmd.AddCommand(newPositionCloseCmd(opts))
	cmd.AddCommand(newPositionCloseAllCmd(opts))
	cmd.AddCommand(newPositionExerciseCmd(opts))

	return cmd
}

func runPositionList(cmd *cobra.Command, opts *apiOptions) error {
	ctx, cancel := newContext()
	defer cancel()

	positions, err := opts.client.ListPositions(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch positions: %w", err)
	}

	headers := []string{"Symbol", "Side", "Qty", "Avg Entry", "Price", "Value", "Day G/L", "Total G/L", "Total %"}
	rows := make([][]string, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, []string{
			p.Symbol,
			string(p.Side),
			p.Qty.String(),
			output.Money(p.AvgEntryPrice.Decimal()),
			output.Money(p.CurrentPrice.Decimal()),
			output.Money(p.MarketValue.Decimal()),
			output.GainLoss(p.UnrealizedIntradayPL.Decimal()),
			output.GainLoss(p.UnrealizedPL.Decimal()),
			output.Percent(p.UnrealizedPLPC.Decimal()),
		})
	}
	return opts.formatter(cmd).List("No positions", headers, rows, positions)
}

func newPositionGetCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get SYMBOL_OR_ASSET_ID",
		Short: "Show one position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			p, err := opts.client.GetPosition(ctx, strings.ToUpper(args[0]))
			if err != nil {
				return fmt.Errorf("failed to get position: %w", err)
			}

			return opts.formatter(cmd).Detail([]output.Field{
				{Label: "Symbol", Value: p.Symbol},
				{Label: "Class", Value: string(p.AssetClass)},
				{Label: "Exchange", Value: string(p.Exchange)},
				{Label: "Side", Value: string(p.Side)},
				{Label: "Quantity", Value: p.Qty.String()},
				{Label: "Avg Entry", Value: output.Money(p.AvgEntryPrice.Decimal())},
				{Label: "Current Price", Value: output.Money(p.CurrentPrice.Decimal())},
				{Label: "Market Value", Value: output.Money(p.MarketValue.Decimal())},
				{Label: "Cost Basis", Value: output.Money(p.CostBasis.Decimal())},
				{Label: "Unrealized P/L", Value: output.GainLoss(p.UnrealizedPL.Decimal()) + " (" + output.Percent(p.UnrealizedPLPC.Decimal()) + ")"},
				{Label: "Today", Value: output.GainLoss(p.UnrealizedIntradayPL.Decimal()) + " (" + output.Percent(p.UnrealizedIntradayPLPC.Decimal()) + ")"},
			}, p)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func newPositionCloseCmd(opts *apiOptions) *cobra.Command {
	var qty, percentage string
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "close SYMBOL_OR_ASSET_ID",
		Short: "Close a position with a market order",
		Long: `Close all of a position, or part of it with --qty or --percentage.

Examples:
  apca positions close AAPL --yes
  apca positions close AAPL --qty 3.8 --yes
  apca positions close AAPL --percentage 25 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params alpaca.ClosePositionParams
			switch {
			case qty != "":
				q, err := parsePositive("qty", qty)
				if err != nil {
					return err
				}
				params = alpaca.CloseQty(q.InexactFloat64())
			case percentage != "":
				p, err := parsePositive("percentage", percentage)
				if err != nil {
					return err
				}
				if p.GreaterThan(hundredPercent) {
					return fmt.Errorf("invalid --percentage %q: must be at most 100", percentage)
				}
				params = alpaca.ClosePercentage(p.InexactFloat64())
			}
			if err := requireConfirm(skipConfirm, "close"); err != nil {
				return err
			}

			ctx, cancel := newContext()
			defer cancel()

			order, err := opts.client.ClosePosition(ctx, strings.ToUpper(args[0]), params)
			if err != nil {
				return fmt.Errorf("failed to close position: %w", err)
			}
			return opts.formatter(cmd).Result(fmt.Sprintf("Close order %s submitted (%s)", order.ID, order.Status), order)
		},
	}

	cmd.Flags().StringVarP(&qty, "qty", "q", "", "Quantity to close")
	cmd.Flags().StringVarP(&percentage, "percentage", "p", "", "Percent of the position to close")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cmd.MarkFlagsMutuallyExclusive("qty", "percentage")
	cmd.SilenceUsage = true

	return cmd
}

func newPositionCloseAllCmd(opts *apiOptions) *cobra.Command {
	var cancelOrders, skipConfirm bool

	cmd := &cobra.Command{
		Use:   "close-all",
		Short: "Liquidate every open position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfirm(skipConfirm, "close-all"); err != nil {
				return err
			}

			ctx, cancel := newContext()
			defer cancel()

			results, err := opts.client.CloseAllPositions(ctx, cancelOrders)
			if err != nil {
				return fmt.Errorf("failed to close positions: %w", err)
			}

			headers := []string{"Symbol", "Status", "Result"}
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, r := range results {
				res := "submitted"
				if r.Succeeded() {
					if o, err := r.Order(); err == nil {
						res = "order " + o.ID.String()
					}
				} else {
					failed++
					res = r.Err().Error()
				}
				rows = append(rows, []string{r.Symbol, r.Status.String(), res})
			}
			if err := opts.formatter(cmd).List("", headers, rows, results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d positions could not be closed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cancelOrders, "cancel-orders", false, "Cancel open orders before liquidating")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cmd.SilenceUsage = true

	return cmd
}

func newPositionExerciseCmd(opts *apiOptions) *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "exercise OPTION_SYMBOL",
		Short: "Exercise a held option contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfirm(skipConfirm, "exercise"); err != nil {
				return err
			}

			ctx, cancel := newContext()
			defer cancel()

			symbol := strings.ToUpper(args[0])
			if err := opts.client.ExerciseOption(ctx, symbol); err != nil {
				return fmt.Errorf("failed to exercise option: %w", err)
			}
			return opts.formatter(cmd).Result("Exercise request submitted for "+symbol, map[string]string{
				"symbol": symbol,
				"status": "exercise_requested",
			})
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cmd.SilenceUsage = true

	return cmd
}

func init() {
	addAPICommand(newPositionsCmd)
}
