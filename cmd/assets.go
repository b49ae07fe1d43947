package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonandersen/apca/internal/output"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// newAssetsCmd creates the assets command with the given options.
func newAssetsCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assets",
		Aliases: []string{"asset"},
		Short:   "Look up tradable assets",
		Long: `List or look up the assets available for trading.

Examples:
  apca assets list --class us_equity --exchange NASDAQ
  apca assets list --attributes has_options,ipo
  apca assets get AAPL
  apca assets get BTC/USD`,
	}

	cmd.AddCommand(newAssetListCmd(opts))
	cmd.AddCommand(newAssetGetCmd(opts))

	return cmd
}

func newAssetListCmd(opts *apiOptions) *cobra.Command {
	var status, class, exchange string
	var attributes []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &alpaca.ListAssetsParams{Attributes: alpaca.CommaSeparated(attributes)}
			if status != "" {
				s, err := enumFlag("status", status, alpaca.AssetStatusActive, alpaca.AssetStatusInactive)
				if err != nil {
					return err
				}
				params.Status = &s
			}
			if class != "" {
				c, err := enumFlag("class", class, alpaca.AssetClassUSEquity, alpaca.AssetClassUSOption, alpaca.AssetClassCrypto)
				if err != nil {
					return err
				}
				params.AssetClass = &c
			}
			if exchange != "" {
				params.Exchange = alpaca.Ptr(alpaca.Exchange(strings.ToUpper(exchange)))
			}

			ctx, cancel := newContext()
			defer cancel()

			assets, err := opts.client.ListAssets(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to list assets: %w", err)
			}

			headers := []string{"Symbol", "Name", "Class", "Exchange", "Tradable", "Fractionable", "Shortable"}
			rows := make([][]string, 0, len(assets))
			for _, a := range assets {
				rows = append(rows, []string{
					a.Symbol, a.Name, string(a.Class), string(a.Exchange),
					yesNo(a.Tradable), yesNo(a.Fractionable), yesNo(a.Shortable),
				})
			}
			return opts.formatter(cmd).List("No assets", headers, rows, assets)
		},
	}

	cmd.Flags().StringVar(&status, "status", "active", "Asset status: active, inactive")
	cmd.Flags().StringVar(&class, "class", "", "Asset class: us_equity, us_option, crypto")
	cmd.Flags().StringVar(&exchange, "exchange", "", "Exchange, e.g. NASDAQ")
	cmd.Flags().StringSliceVar(&attributes, "attributes", nil, "Required attributes, e.g. has_options,ipo")
	cmd.SilenceUsage = true

	return cmd
}

func newAssetGetCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get SYMBOL_OR_ASSET_ID",
		Short: "Show one asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			a, err := opts.client.GetAsset(ctx, strings.ToUpper(args[0]))
			if err != nil {
				return fmt.Errorf("failed to get asset: %w", err)
			}

			return opts.formatter(cmd).Detail([]output.Field{
				{Label: "Symbol", Value: a.Symbol},
				{Label: "Name", Value: a.Name},
				{Label: "ID", Value: a.ID.String()},
				{Label: "Class", Value: string(a.Class)},
				{Label: "Exchange", Value: string(a.Exchange)},
				{Label: "Status", Value: string(a.Status)},
				{Label: "Tradable", Value: yesNo(a.Tradable)},
				{Label: "Marginable", Value: yesNo(a.Marginable)},
				{Label: "Shortable", Value: yesNo(a.Shortable)},
				{Label: "Easy to Borrow", Value: yesNo(a.EasyToBorrow)},
				{Label: "Fractionable", Value: yesNo(a.Fractionable)},
				{Label: "Margin Requirement", Value: a.MaintenanceMarginRequirement.String() + "%"},
				{Label: "Attributes", Value: output.Optional(strings.Join(a.Attributes, ", "))},
			}, a)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func init() {
	addAPICommand(newAssetsCmd)
}
