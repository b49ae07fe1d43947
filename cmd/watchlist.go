package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonandersen/apca/internal/output"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// newWatchlistCmd creates the watchlist command with the given options.
func newWatchlistCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watchlist",
		Aliases: []string{"watchlists", "wl"},
		Short:   "Manage watchlists",
		Long: `Create and edit watchlists. Watchlists are addressed by id, or by name
when the argument is not a UUID.

Examples:
  apca watchlist list
  apca watchlist create tech AAPL MSFT NVDA
  apca watchlist add tech META
  apca watchlist remove tech MSFT
  apca watchlist get tech
  apca watchlist delete tech --yes`,
	}

	cmd.AddCommand(newWatchlistListCmd(opts))
	cmd.AddCommand(newWatchlistGetCmd(opts))
	cmd.AddCommand(newWatchlistCreateCmd(opts))
	cmd.AddCommand(newWatchlistUpdateCmd(opts))
	cmd.AddCommand(newWatchlistAddCmd(opts))
	cmd.AddCommand(newWatchlistRemoveCmd(opts))
	cmd.AddCommand(newWatchlistDeleteCmd(opts))

	return cmd
}

// isWatchlistID reports whether ref is a watchlist id rather than a name.
func isWatchlistID(ref string) bool {
	_, err := uuid.Parse(ref)
	return err == nil
}

// resolveWatchlistID returns the id for ref, looking names up when needed.
// The API addresses remove-asset by id only.
func resolveWatchlistID(ctx context.Context, client *alpaca.Client, ref string) (string, error) {
	if isWatchlistID(ref) {
		return ref, nil
	}
	wl, err := client.GetWatchlistByName(ctx, ref)
	if err != nil {
		return "", err
	}
	return wl.ID.String(), nil
}

func printWatchlist(cmd *cobra.Command, opts *apiOptions, wl *alpaca.Watchlist) error {
	if opts.jsonMode {
		return opts.formatter(cmd).Print(wl)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n\n", wl.Name, wl.ID)
	if len(wl.Assets) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No assets")
		return nil
	}

	headers := []string{"Symbol", "Name", "Exchange", "Class"}
	rows := make([][]string, 0, len(wl.Assets))
	for _, a := range wl.Assets {
		rows = append(rows, []string{a.Symbol, a.Name, string(a.Exchange), string(a.Class)})
	}
	return opts.formatter(cmd).Table(headers, rows)
}

func newWatchlistListCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List watchlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			lists, err := opts.client.ListWatchlists(ctx)
			if err != nil {
				return fmt.Errorf("failed to list watchlists: %w", err)
			}

			headers := []string{"ID", "Name", "Updated"}
			rows := make([][]string, 0, len(lists))
			for _, wl := range lists {
				rows = append(rows, []string{wl.ID.String(), wl.Name, output.Time(&wl.UpdatedAt)})
			}
			return opts.formatter(cmd).List("No watchlists", headers, rows, lists)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func newWatchlistGetCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get ID_OR_NAME",
		Short: "Show a watchlist and its assets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			var wl *alpaca.Watchlist
			var err error
			if isWatchlistID(args[0]) {
				wl, err = opts.client.GetWatchlist(ctx, args[0])
			} else {
				wl, err = opts.client.GetWatchlistByName(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to get watchlist: %w", err)
			}
			return printWatchlist(cmd, opts, wl)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func newWatchlistCreateCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create NAME [SYMBOL...]",
		Short: "Create a watchlist",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			wl, err := opts.client.CreateWatchlist(ctx, alpaca.WatchlistRequest{
				Name:    args[0],
				Symbols: upper(args[1:]),
			})
			if err != nil {
				return fmt.Errorf("failed to create watchlist: %w", err)
			}
			return printWatchlist(cmd, opts, wl)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func newWatchlistUpdateCmd(opts *apiOptions) *cobra.Command {
	var rename string

	cmd := &cobra.Command{
		Use:   "update ID_OR_NAME [SYMBOL...]",
		Short: "Replace the name and symbols of a watchlist",
		Long: `Replace the contents of a watchlist. Symbols not listed are removed.

Examples:
  apca watchlist update tech AAPL MSFT
  apca watchlist update tech --rename megacaps AAPL MSFT`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			req := alpaca.WatchlistRequest{Name: rename, Symbols: upper(args[1:])}
			if req.Name == "" && !isWatchlistID(ref) {
				req.Name = ref
			}

			ctx, cancel := newContext()
			defer cancel()

			var wl *alpaca.Watchlist
			var err error
			if isWatchlistID(ref) {
				wl, err = opts.client.UpdateWatchlist(ctx, ref, req)
			} else {
				wl, err = opts.client.UpdateWatchlistByName(ctx, ref, req)
			}
			if err != nil {
				return fmt.Errorf("failed to update watchlist: %w", err)
			}
			return printWatchlist(cmd, opts, wl)
		},
	}

	cmd.Flags().StringVar(&rename, "rename", "", "New watchlist name")
	cmd.SilenceUsage = true

	return cmd
}

func newWatchlistAddCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add ID_OR_NAME SYMBOL",
		Short: "Add an asset to a watchlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			symbol := strings.ToUpper(args[1])
			var wl *alpaca.Watchlist
			var err error
			if isWatchlistID(args[0]) {
				wl, err = opts.client.AddAssetToWatchlist(ctx, args[0], symbol)
			} else {
				wl, err = opts.client.AddAssetToWatchlistByName(ctx, args[0], symbol)
			}
			if err != nil {
				return fmt.Errorf("failed to add %s: %w", symbol, err)
			}
			return printWatchlist(cmd, opts, wl)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func newWatchlistRemoveCmd(opts *apiOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove ID_OR_NAME SYMBOL",
		Short: "Remove an asset from a watchlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := newContext()
			defer cancel()

			id, err := resolveWatchlistID(ctx, opts.client, args[0])
			if err != nil {
				return fmt.Errorf("failed to find watchlist: %w", err)
			}
			symbol := strings.ToUpper(args[1])
			wl, err := opts.client.RemoveAssetFromWatchlist(ctx, id, symbol)
			if err != nil {
				return fmt.Errorf("failed to remove %s: %w", symbol, err)
			}
			return printWatchlist(cmd, opts, wl)
		},
	}
	cmd.SilenceUsage = true
	return cmd
}

func newWatchlistDeleteCmd(opts *apiOptions) *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "delete ID_OR_NAME",
		Short: "Delete a watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfirm(skipConfirm, "delete"); err != nil {
				return err
			}

			ctx, cancel := newContext()
			defer cancel()

			var err error
			if isWatchlistID(args[0]) {
				err = opts.client.DeleteWatchlist(ctx, args[0])
			} else {
				err = opts.client.DeleteWatchlistByName(ctx, args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to delete watchlist: %w", err)
			}
			return opts.formatter(cmd).Result("Watchlist deleted: "+args[0], map[string]string{
				"watchlist": args[0],
				"status":    "deleted",
			})
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	cmd.SilenceUsage = true

	return cmd
}

func init() {
	addAPICommand(newWatchlistCmd)
}
