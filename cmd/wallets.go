package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonandersen/apca/internal/output"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// newWalletsCmd creates the wallets command with the given options.
func newWalletsCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wallets",
		Aliases: []string{"wallet"},
		Short:   "Manage crypto funding wallets",
		Long: `View deposit wallets and transfers, manage withdrawal addresses,
and withdraw crypto.

Examples:
  apca wallets list --asset USDC --network ethereum
  apca wallets transfers
  apca wallets whitelist add 0xABC... --asset ETH
  apca wallets fee --asset ETH --amount 0.5
  apca wallets withdraw --asset ETH --amount 0.5 --address 0xABC... --yes`,
	}

	cmd.AddCommand(newWalletListCmd(opts))
	cmd.AddCommand(newTransfersCmd(opts))
	cmd.AddCommand(newWithdrawCmd(opts))
	cmd.AddCommand(newWhitelistCmd(opts))
	cmd.AddCommand(newGasFeeCmd(opts))

	return cmd
}

func newWalletListCmd(opts *apiOptions) *cobra.Command {
	var asset, network string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deposit wallets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &alpaca.WalletParams{Asset: strings.ToUpper(asset)}
			if network != "" {
				n, err := enumFlag("network", network, alpaca.NetworkEthereum, alpaca.NetworkSolana)
				if err != nil {
					return err
				}
				params.Network = &n
			}

			ctx, cancel := newContext()
			defer cancel()

			wallets, err := opts.client.ListWallets(ctx, params)
			if err != nil {
				return fmt.Errorf("failed to list wallets: %w", err)
			}

			headers := []string{"Chain", "Address", "Created"}
			rows := make([][]string, 0, len(wallets))
			for _, w := range wallets {
				rows = append(rows, []string{w.Chain, w.Address, output.Time(&w.CreatedAt)})
			}
			return opts.formatter(cmd).List("No wallets", headers, rows, wallets)
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "Asset, e.g. USDC")
	cmd.Flags().StringVar(&network, "network", "", "Network: ethereum, solana")
	cmd.SilenceUsage = true

	return cmd
}

func transferFields(t *alpaca.CryptoTransfer) []output.Field {
	return []output.Field{
		{Label: "ID", Value: t.ID.String()},
		{Label: "Direction", Value: string(t.Direction)},
		{Label: "Status", Value: string(t.Status)},
		{Label: "Asset", Value: t.Asset},
		{Label: "Chain", Value: output.Optional(t.Chain)},
		{Label: "Amount", Value: t.Amount.String()},
		{Label: "USD Value", Value: output.Money(t.USDValue.Decimal())},
		{Label: "Network Fee", Value: output.Money(t.NetworkFee.Decimal())},
		{Label: "Fees", Value: output.Money(t.Fees.Decimal())},
		{Label: "From", Value: output.Optional(t.FromAddress)},
		{Label: "To", Value: output.Optional(t.ToAddress)},
		{Label: "Tx Hash", Value: output.Optional(t.TxHash)},
		{Label: "Created", Value: output.Time(&t.CreatedAt)},
	}
}

func newTransfersCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfers [TRANSFER_ID]",
		Short: "List crypto transfers, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			if len(args) == 1 {
				t, err := opts.client.GetCryptoTransfer(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to get transfer: %w", err)
				}
				return opts.formatter(cmd).Detail(transferFields(t), t)
			}

			transfers, err := opts.client.ListCryptoTransfers(ctx)
			if err != nil {
				return fmt.Errorf("failed to list transfers: %w", err)
			}
			headers := []string{"ID", "Direction", "Status", "Asset", "Amount", "USD Value", "Created"}
			rows := make([][]string, 0, len(transfers))
			for _, t := range transfers {
				rows = append(rows, []string{
					t.ID.String(), string(t.Direction), string(t.Status), t.Asset,
					t.Amount.String(), output.Money(t.USDValue.Decimal()), output.Time(&t.CreatedAt),
				})
			}
			return opts.formatter(cmd).List("No transfers", headers, rows, transfers)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func newWithdrawCmd(opts *apiOptions) *cobra.Command {
	var amount, address, asset string
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Withdraw crypto to a whitelisted address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := quantityFlag("amount", amount)
			if err != nil {
				return err
			}
			if qty == nil {
				return fmt.Errorf("--amount is required")
			}
			req := alpaca.WithdrawalRequest{
				Amount:  *qty,
				Address: address,
				Asset:   strings.ToUpper(asset),
			}

			if !skipConfirm {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Withdraw %s %s to %s\n", req.Amount, req.Asset, req.Address)
				return requireConfirm(false, "withdraw")
			}

			ctx, cancel := newContext()
			defer cancel()

			t, err := opts.client.RequestWithdrawal(ctx, req)
			if err != nil {
				return fmt.Errorf("failed to request withdrawal: %w", err)
			}
			return opts.formatter(cmd).Result(fmt.Sprintf("Withdrawal %s submitted (%s)", t.ID, t.Status), t)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "Amount to withdraw")
	cmd.Flags().StringVar(&address, "address", "", "Whitelisted destination address")
	cmd.Flags().StringVar(&asset, "asset", "", "Asset, e.g. ETH")
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("asset")
	cmd.SilenceUsage = true

	return cmd
}

func newWhitelistCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "Manage withdrawal addresses",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List whitelisted addresses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			addrs, err := opts.client.ListWhitelistedAddresses(ctx)
			if err != nil {
				return fmt.Errorf("failed to list whitelisted addresses: %w", err)
			}

			headers := []string{"ID", "Asset", "Chain", "Address", "Status", "Created"}
			rows := make([][]string, 0, len(addrs))
			for _, a := range addrs {
				rows = append(rows, []string{
					a.ID.String(), a.Asset, a.Chain, a.Address, string(a.Status), output.Time(&a.CreatedAt),
				})
			}
			return opts.formatter(cmd).List("No whitelisted addresses", headers, rows, addrs)
		},
	}
	list.SilenceUsage = true

	var asset string
	add := &cobra.Command{
		Use:   "add ADDRESS",
		Short: "Request approval of a withdrawal address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			a, err := opts.client.CreateWhitelistedAddress(ctx, alpaca.WhitelistRequest{
				Address: args[0],
				Asset:   strings.ToUpper(asset),
			})
			if err != nil {
				return fmt.Errorf("failed to whitelist address: %w", err)
			}
			return opts.formatter(cmd).Result(fmt.Sprintf("Address %s added (%s)", a.Address, a.Status), a)
		},
	}
	add.Flags().StringVar(&asset, "asset", "", "Asset, e.g. ETH")
	_ = add.MarkFlagRequired("asset")
	add.SilenceUsage = true

	var skipConfirm bool
	del := &cobra.Command{
		Use:   "delete WHITELIST_ID",
		Short: "Remove a withdrawal address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfirm(skipConfirm, "delete"); err != nil {
				return err
			}

			ctx, cancel := newContext()
			defer cancel()

			if err := opts.client.DeleteWhitelistedAddress(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete whitelisted address: %w", err)
			}
			return opts.formatter(cmd).Result("Whitelisted address deleted: "+args[0], map[string]string{
				"id":     args[0],
				"status": "deleted",
			})
		},
	}
	del.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	del.SilenceUsage = true

	cmd.AddCommand(list, add, del)
	return cmd
}

func newGasFeeCmd(opts *apiOptions) *cobra.Command {
	var asset, from, to, amount string

	cmd := &cobra.Command{
		Use:   "fee",
		Short: "Estimate the network fee of a transfer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := quantityFlag("amount", amount)
			if err != nil {
				return err
			}

			ctx, cancel := newContext()
			defer cancel()

			fee, err := opts.client.EstimateGasFee(ctx, &alpaca.GasFeeParams{
				Asset:       strings.ToUpper(asset),
				FromAddress: from,
				ToAddress:   to,
				Amount:      qty,
			})
			if err != nil {
				return fmt.Errorf("failed to estimate fee: %w", err)
			}
			return opts.formatter(cmd).Detail([]output.Field{
				{Label: "Asset", Value: strings.ToUpper(asset)},
				{Label: "Estimated Fee", Value: output.Money(fee.Fee.Decimal())},
			}, fee)
		},
	}

	cmd.Flags().StringVar(&asset, "asset", "", "Asset, e.g. ETH")
	cmd.Flags().StringVar(&from, "from", "", "Source address")
	cmd.Flags().StringVar(&to, "to", "", "Destination address")
	cmd.Flags().StringVar(&amount, "amount", "", "Transfer amount")
	_ = cmd.MarkFlagRequired("asset")
	cmd.SilenceUsage = true

	return cmd
}

func init() {
	addAPICommand(newWalletsCmd)
}
