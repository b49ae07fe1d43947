package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonandersen/apca/internal/output"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// newAccountCmd creates the account command with the given options.
func newAccountCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "View account information",
		Long: `View balances, buying power and status of the trading account.

Examples:
  apca account          # Account summary
  apca account --json   # Full account as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccount(cmd, opts)
		},
	}

	cmd.SilenceUsage = true

	return cmd
}

func runAccount(cmd *cobra.Command, opts *apiOptions) error {
	ctx, cancel := newContext()
	defer cancel()

	acct, err := opts.client.GetAccount(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch account: %w", err)
	}

	dayChange := acct.Equity.Decimal().Sub(acct.LastEquity.Decimal())

	fields := []output.Field{
		{Label: "Account", Value: acct.AccountNumber},
		{Label: "Status", Value: string(acct.Status)},
		{Label: "Currency", Value: string(acct.Currency)},
		{Label: "Equity", Value: output.Money(acct.Equity.Decimal())},
		{Label: "Day Change", Value: output.GainLoss(dayChange)},
		{Label: "Cash", Value: output.Money(acct.Cash.Decimal())},
		{Label: "Buying Power", Value: output.Money(acct.BuyingPower.Decimal())},
		{Label: "Options Buying Power", Value: output.Money(acct.OptionsBuyingPower.Decimal())},
		{Label: "Long Market Value", Value: output.Money(acct.LongMarketValue.Decimal())},
		{Label: "Short Market Value", Value: output.Money(acct.ShortMarketValue.Decimal())},
		{Label: "Multiplier", Value: acct.Multiplier.String() + "x"},
		{Label: "Options Level", Value: strconv.Itoa(acct.OptionsTradingLevel)},
		{Label: "Day Trades", Value: strconv.Itoa(acct.DaytradeCount)},
		{Label: "Pattern Day Trader", Value: yesNo(acct.PatternDayTrader)},
	}
	if acct.CryptoStatus != "" {
		fields = append(fields, output.Field{Label: "Crypto Status", Value: string(acct.CryptoStatus)})
	}
	if blocked := blockedFlags(acct); blocked != "" {
		fields = append(fields, output.Field{Label: "Blocked", Value: blocked})
	}

	return opts.formatter(cmd).Detail(fields, acct)
}

func blockedFlags(a *alpaca.Account) string {
	var out string
	add := func(ok bool, name string) {
		if !ok {
			return
		}
		if out != "" {
			out += ", "
		}
		out += name
	}
	add(a.AccountBlocked, "account")
	add(a.TradingBlocked, "trading")
	add(a.TransfersBlocked, "transfers")
	add(a.TradeSuspendedByUser, "suspended by user")
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	addAPICommand(newAccountCmd)
}
