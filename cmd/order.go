package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonandersen/apca/internal/output"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// newOrderCmd creates the parent order command.
func newOrderCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place and manage orders",
		Long: `Place buy and sell orders, list and inspect orders, replace or cancel open orders.

Examples:
  apca order buy AAPL --qty 10 --yes                           # Market order
  apca order sell AAPL --qty 5 --limit 180 --tif gtc --yes     # Limit order
  apca order list --status all                                 # Recent orders
  apca order get 61e69015-8549-4bfd-b9c3-01e75843f47d          # Order details
  apca order cancel 61e69015-8549-4bfd-b9c3-01e75843f47d --yes # Cancel an order`,
	}

	cmd.AddCommand(newOrderPlaceCmd(opts, alpaca.SideBuy))
	cmd.AddCommand(newOrderPlaceCmd(opts, alpaca.SideSell))
	cmd.AddCommand(newOrderListCmd(opts))
	cmd.AddCommand(newOrderGetCmd(opts))
	cmd.AddCommand(newOrderReplaceCmd(opts))
	cmd.AddCommand(newOrderCancelCmd(opts))
	cmd.AddCommand(newOrderCancelAllCmd(opts))

	return cmd
}

// orderParams holds the flag values of buy and sell.
type orderParams struct {
	qty           string
	notional      string
	limitPrice    string
	stopPrice     string
	trailPrice    string
	trailPercent  string
	timeInForce   string
	extendedHours bool
	takeProfit    string
	stopLoss      string
	clientOrderID string
	intent        string
}

// newOrderPlaceCmd creates the buy or sell subcommand.
func newOrderPlaceCmd(opts *apiOptions, side alpaca.Side) *cobra.Command {
	var params orderParams
	var skipConfirm bool

	verb := string(side)
	cmd := &cobra.Command{
		Use:   verb + " SYMBOL",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a stock, option or crypto asset",
		Long: `Place a ` + verb + ` order.

The order type follows from the price flags:
  - no price flags: market
  - --limit: limit
  - --stop: stop
  - --limit and --stop: stop_limit
  - --trail-price or --trail-percent: trailing_stop

--take-profit and --stop-loss turn the order into a bracket order.

Examples:
  apca order ` + verb + ` AAPL --qty 10 --yes
  apca order ` + verb + ` AAPL --notional 500 --yes
  apca order ` + verb + ` AAPL --qty 10 --limit 175 --tif gtc --yes
  apca order ` + verb + ` AAPL --qty 10 --limit 175 --take-profit 190 --stop-loss 160 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd, opts, args[0], side, params, skipConfirm)
		},
	}

	cmd.Flags().StringVarP(&params.qty, "qty", "q", "", "Quantity (shares, contracts or coins)")
	cmd.Flags().StringVar(&params.notional, "notional", "", "Dollar amount instead of quantity")
	cmd.Flags().StringVarP(&params.limitPrice, "limit", "l", "", "Limit price")
	cmd.Flags().StringVarP(&params.stopPrice, "stop", "s", "", "Stop price")
	cmd.Flags().StringVar(&params.trailPrice, "trail-price", "", "Trailing stop offset in dollars")
	cmd.Flags().StringVar(&params.trailPercent, "trail-percent", "", "Trailing stop offset in percent")
	cmd.Flags().StringVarP(&params.timeInForce, "tif", "t", "day", "Time in force: day, gtc, opg, cls, ioc, fok")
	cmd.Flags().BoolVar(&params.extendedHours, "extended-hours", false, "Allow execution in extended hours (limit day orders only)")
	cmd.Flags().StringVar(&params.takeProfit, "take-profit", "", "Take-profit limit price (bracket order)")
	cmd.Flags().StringVar(&params.stopLoss, "stop-loss", "", "Stop-loss stop price (bracket order)")
	cmd.Flags().StringVar(&params.clientOrderID, "client-order-id", "", "Client order id (generated if omitted)")
	cmd.Flags().StringVar(&params.intent, "intent", "", "Options position intent: buy_to_open, buy_to_close, sell_to_open, sell_to_close")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cmd.MarkFlagsMutuallyExclusive("qty", "notional")
	cmd.MarkFlagsOneRequired("qty", "notional")
	cmd.SilenceUsage = true

	return cmd
}

// determineOrderType derives the order type from the price flags.
func determineOrderType(p orderParams) alpaca.OrderType {
	hasLimit := p.limitPrice != ""
	hasStop := p.stopPrice != ""

	switch {
	case p.trailPrice != "" || p.trailPercent != "":
		return alpaca.OrderTypeTrailingStop
	case hasLimit && hasStop:
		return alpaca.OrderTypeStopLimit
	case hasLimit:
		return alpaca.OrderTypeLimit
	case hasStop:
		return alpaca.OrderTypeStop
	default:
		return alpaca.OrderTypeMarket
	}
}

// buildOrderRequest validates params and assembles the request body.
func buildOrderRequest(symbol string, side alpaca.Side, p orderParams) (*alpaca.OrderRequest, error) {
	req := &alpaca.OrderRequest{
		Symbol:        strings.ToUpper(symbol),
		Side:          side,
		Type:          determineOrderType(p),
		ExtendedHours: p.extendedHours,
	}

	var err error
	if req.TimeInForce, err = enumFlag("tif", p.timeInForce,
		alpaca.TimeInForceDay, alpaca.TimeInForceGTC, alpaca.TimeInForceOPG,
		alpaca.TimeInForceCLS, alpaca.TimeInForceIOC, alpaca.TimeInForceFOK); err != nil {
		return nil, err
	}
	if req.Qty, err = quantityFlag("qty", p.qty); err != nil {
		return nil, err
	}
	if req.Notional, err = moneyFlag("notional", p.notional); err != nil {
		return nil, err
	}
	if req.LimitPrice, err = moneyFlag("limit", p.limitPrice); err != nil {
		return nil, err
	}
	if req.StopPrice, err = moneyFlag("stop", p.stopPrice); err != nil {
		return nil, err
	}
	if req.TrailPrice, err = moneyFlag("trail-price", p.trailPrice); err != nil {
		return nil, err
	}
	if req.TrailPercent, err = quantityFlag("trail-percent", p.trailPercent); err != nil {
		return nil, err
	}
	if req.TrailPrice != nil && req.TrailPercent != nil {
		return nil, fmt.Errorf("use only one of --trail-price and --trail-percent")
	}
	if p.extendedHours && (req.Type != alpaca.OrderTypeLimit || req.TimeInForce != alpaca.TimeInForceDay) {
		return nil, fmt.Errorf("--extended-hours requires a limit order with --tif day")
	}

	if p.intent != "" {
		intent, err := enumFlag("intent", p.intent,
			alpaca.PositionIntentBuyToOpen, alpaca.PositionIntentBuyToClose,
			alpaca.PositionIntentSellToOpen, alpaca.PositionIntentSellToClose)
		if err != nil {
			return nil, err
		}
		req.PositionIntent = &intent
	}

	takeProfit, err := moneyFlag("take-profit", p.takeProfit)
	if err != nil {
		return nil, err
	}
	stopLoss, err := moneyFlag("stop-loss", p.stopLoss)
	if err != nil {
		return nil, err
	}
	switch {
	case takeProfit != nil && stopLoss != nil:
		req.OrderClass = alpaca.Ptr(alpaca.OrderClassBracket)
		req.TakeProfit = &alpaca.TakeProfit{LimitPrice: *takeProfit}
		req.StopLoss = &alpaca.StopLoss{StopPrice: *stopLoss}
	case takeProfit != nil || stopLoss != nil:
		return nil, fmt.Errorf("bracket orders need both --take-profit and --stop-loss")
	}

	clientID := p.clientOrderID
	if clientID == "" {
		clientID = uuid.NewString()
	}
	req.ClientOrderID = &clientID

	return req, nil
}

func runOrder(cmd *cobra.Command, opts *apiOptions, symbol string, side alpaca.Side, params orderParams, skipConfirm bool) error {
	req, err := buildOrderRequest(symbol, side, params)
	if err != nil {
		return err
	}

	// Show order preview (not in JSON mode)
	if !opts.jsonMode {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "\nOrder Preview:\n")
		_, _ = fmt.Fprintf(out, "  Action:   %s\n", strings.ToUpper(string(side)))
		_, _ = fmt.Fprintf(out, "  Symbol:   %s\n", req.Symbol)
		if req.Qty != nil {
			_, _ = fmt.Fprintf(out, "  Quantity: %s\n", req.Qty)
		} else {
			_, _ = fmt.Fprintf(out, "  Notional: %s\n", output.Money(req.Notional.Decimal()))
		}
		_, _ = fmt.Fprintf(out, "  Type:     %s\n", req.Type)
		if req.LimitPrice != nil {
			_, _ = fmt.Fprintf(out, "  Limit:    %s\n", output.Money(req.LimitPrice.Decimal()))
		}
		if req.StopPrice != nil {
			_, _ = fmt.Fprintf(out, "  Stop:     %s\n", output.Money(req.StopPrice.Decimal()))
		}
		if req.OrderClass != nil {
			_, _ = fmt.Fprintf(out, "  Bracket:  take profit %s, stop loss %s\n",
				output.Money(req.TakeProfit.LimitPrice.Decimal()), output.Money(req.StopLoss.StopPrice.Decimal()))
		}
		_, _ = fmt.Fprintf(out, "  Expires:  %s\n", req.TimeInForce)
		_, _ = fmt.Fprintf(out, "  Client ID: %s\n\n", *req.ClientOrderID)
	}

	if err := requireConfirm(skipConfirm, "order"); err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	order, err := opts.client.CreateOrder(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}

	if opts.jsonMode {
		return opts.formatter(cmd).Print(order)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Order placed!\n")
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Order ID: %s\n", order.ID)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Status:   %s\n", order.Status)
	return nil
}

// newOrderListCmd creates the list subcommand with the given options.
func newOrderListCmd(opts *apiOptions) *cobra.Command {
	var status, side string
	var symbols []string
	var limit int
	var nested bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Long: `List orders, open ones by default.

Examples:
  apca order list                        # Open orders
  apca order list --status all --limit 100
  apca order list --symbols AAPL,TSLA --side buy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &alpaca.ListOrdersParams{Symbols: alpaca.CommaSeparated(upper(symbols))}
			st, err := enumFlag("status", status, alpaca.OrderQueryStatusOpen, alpaca.OrderQueryStatusClosed, alpaca.OrderQueryStatusAll)
			if err != nil {
				return err
			}
			params.Status = &st
			if side != "" {
				s, err := enumFlag("side", side, alpaca.SideBuy, alpaca.SideSell)
				if err != nil {
					return err
				}
				params.Side = &s
			}
			if limit > 0 {
				params.Limit = &limit
			}
			if nested {
				params.Nested = &nested
			}
			return runOrderList(cmd, opts, params)
		},
	}

	cmd.Flags().StringVar(&status, "status", "open", "Order status: open, closed, all")
	cmd.Flags().StringVar(&side, "side", "", "Only buy or sell orders")
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "Comma-separated symbols")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of orders (API default 50, max 500)")
	cmd.Flags().BoolVar(&nested, "nested", false, "Roll up multi-leg orders under their parent")
	cmd.SilenceUsage = true

	return cmd
}

func runOrderList(cmd *cobra.Command, opts *apiOptions, params *alpaca.ListOrdersParams) error {
	ctx, cancel := newContext()
	defer cancel()

	orders, err := opts.client.ListOrders(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	headers := []string{"Order ID", "Symbol", "Side", "Type", "Status", "Qty", "Filled", "Limit", "Submitted"}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRow(o))
	}
	return opts.formatter(cmd).List("No orders", headers, rows, orders)
}

func orderRow(o alpaca.Order) []string {
	qty := "-"
	switch {
	case o.Qty != nil:
		qty = o.Qty.String()
	case o.Notional != nil:
		qty = output.Money(o.Notional.Decimal())
	}
	limit := "-"
	if o.LimitPrice != nil {
		limit = output.Money(o.LimitPrice.Decimal())
	}
	return []string{
		o.ID.String(),
		o.Symbol,
		string(o.Side),
		string(o.Type),
		string(o.Status),
		qty,
		o.FilledQty.String(),
		limit,
		output.Time(o.SubmittedAt),
	}
}

// newOrderGetCmd creates the get subcommand with the given options.
func newOrderGetCmd(opts *apiOptions) *cobra.Command {
	var byClientID bool

	cmd := &cobra.Command{
		Use:   "get ORDER_ID",
		Short: "Show one order",
		Long: `Show an order by its id, or by client order id with --client-id.

Examples:
  apca order get 61e69015-8549-4bfd-b9c3-01e75843f47d
  apca order get my-order-1 --client-id`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			var order *alpaca.Order
			var err error
			if byClientID {
				order, err = opts.client.GetOrderByClientOrderID(ctx, args[0])
			} else {
				order, err = opts.client.GetOrder(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to get order: %w", err)
			}
			return printOrder(cmd, opts, order)
		},
	}

	cmd.Flags().BoolVar(&byClientID, "client-id", false, "Look up by client order id")
	cmd.SilenceUsage = true

	return cmd
}

func printOrder(cmd *cobra.Command, opts *apiOptions, o *alpaca.Order) error {
	row := orderRow(*o)
	fields := []output.Field{
		{Label: "Order ID", Value: row[0]},
		{Label: "Client ID", Value: o.ClientOrderID},
		{Label: "Symbol", Value: o.Symbol},
		{Label: "Side", Value: row[2]},
		{Label: "Type", Value: row[3]},
		{Label: "Class", Value: output.Optional(string(o.OrderClass))},
		{Label: "Status", Value: row[4]},
		{Label: "Quantity", Value: row[5]},
		{Label: "Filled", Value: row[6]},
		{Label: "Limit", Value: row[7]},
	}
	if o.StopPrice != nil {
		fields = append(fields, output.Field{Label: "Stop", Value: output.Money(o.StopPrice.Decimal())})
	}
	if o.FilledAvgPrice != nil {
		fields = append(fields, output.Field{Label: "Avg Price", Value: output.Money(o.FilledAvgPrice.Decimal())})
	}
	fields = append(fields,
		output.Field{Label: "Time in Force", Value: string(o.TimeInForce)},
		output.Field{Label: "Created", Value: output.Time(&o.CreatedAt)},
		output.Field{Label: "Filled At", Value: output.Time(o.FilledAt)},
	)
	for i, leg := range o.Legs {
		fields = append(fields, output.Field{
			Label: fmt.Sprintf("Leg %d", i+1),
			Value: fmt.Sprintf("%s %s %s %s", leg.Side, leg.Symbol, leg.Type, leg.Status),
		})
	}
	return opts.formatter(cmd).Detail(fields, o)
}

// newOrderReplaceCmd creates the replace subcommand with the given options.
func newOrderReplaceCmd(opts *apiOptions) *cobra.Command {
	var qty, limitPrice, stopPrice, trail, tif string
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "replace ORDER_ID",
		Short: "Replace an open order",
		Long: `Change quantity, prices or time in force of an open order.
Fields without a flag keep their current value.

Examples:
  apca order replace 61e69015-8549-4bfd-b9c3-01e75843f47d --limit 172.5 --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &alpaca.ReplaceOrderRequest{}
			var err error
			if req.Qty, err = quantityFlag("qty", qty); err != nil {
				return err
			}
			if req.LimitPrice, err = moneyFlag("limit", limitPrice); err != nil {
				return err
			}
			if req.StopPrice, err = moneyFlag("stop", stopPrice); err != nil {
				return err
			}
			if req.Trail, err = moneyFlag("trail", trail); err != nil {
				return err
			}
			if tif != "" {
				t, err := enumFlag("tif", tif, alpaca.TimeInForceDay, alpaca.TimeInForceGTC,
					alpaca.TimeInForceOPG, alpaca.TimeInForceCLS, alpaca.TimeInForceIOC, alpaca.TimeInForceFOK)
				if err != nil {
					return err
				}
				req.TimeInForce = &t
			}
			if *req == (alpaca.ReplaceOrderRequest{}) {
				return fmt.Errorf("nothing to replace (use --qty, --limit, --stop, --trail or --tif)")
			}
			if err := requireConfirm(skipConfirm, "replace"); err != nil {
				return err
			}

			ctx, cancel := newContext()
			defer cancel()

			order, err := opts.client.ReplaceOrder(ctx, args[0], req)
			if err != nil {
				return fmt.Errorf("failed to replace order: %w", err)
			}
			return opts.formatter(cmd).Result(fmt.Sprintf("Order replaced by %s (%s)", order.ID, order.Status), order)
		},
	}

	cmd.Flags().StringVarP(&qty, "qty", "q", "", "New quantity")
	cmd.Flags().StringVarP(&limitPrice, "limit", "l", "", "New limit price")
	cmd.Flags().StringVarP(&stopPrice, "stop", "s", "", "New stop price")
	cmd.Flags().StringVar(&trail, "trail", "", "New trailing offset")
	cmd.Flags().StringVarP(&tif, "tif", "t", "", "New time in force")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cmd.SilenceUsage = true

	return cmd
}

// newOrderCancelCmd creates the cancel subcommand with the given options.
func newOrderCancelCmd(opts *apiOptions) *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "cancel ORDER_ID",
		Short: "Cancel an open order",
		Long: `Cancel an open order by its order ID.

Examples:
  apca order cancel 61e69015-8549-4bfd-b9c3-01e75843f47d --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfirm(skipConfirm, "cancel"); err != nil {
				return err
			}

			ctx, cancel := newContext()
			defer cancel()

			if err := opts.client.CancelOrder(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to cancel order: %w", err)
			}
			return opts.formatter(cmd).Result("Cancel request submitted for "+args[0], map[string]string{
				"id":     args[0],
				"status": "cancel_requested",
			})
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cmd.SilenceUsage = true

	return cmd
}

// newOrderCancelAllCmd creates the cancel-all subcommand with the given options.
func newOrderCancelAllCmd(opts *apiOptions) *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "cancel-all",
		Short: "Cancel every open order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfirm(skipConfirm, "cancel-all"); err != nil {
				return err
			}

			ctx, cancel := newContext()
			defer cancel()

			results, err := opts.client.CancelAllOrders(ctx)
			if err != nil {
				return fmt.Errorf("failed to cancel orders: %w", err)
			}

			headers := []string{"Order ID", "Result"}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				res := "canceled"
				if r.Status != http.StatusOK && r.Status != http.StatusNoContent {
					res = fmt.Sprintf("failed (%d)", r.Status)
				}
				rows = append(rows, []string{r.ID.String(), res})
			}
			return opts.formatter(cmd).List("", headers, rows, results)
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cmd.SilenceUsage = true

	return cmd
}

func init() {
	addAPICommand(newOrderCmd)
}
