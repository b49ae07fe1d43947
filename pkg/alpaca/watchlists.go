package alpaca

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// WatchlistSummary is a watchlist without its assets, as returned by
// ListWatchlists.
type WatchlistSummary struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `json:"name"`
}

// Watchlist is a named, ordered list of assets.
type Watchlist struct {
	WatchlistSummary
	Assets []Asset `json:"assets"`
}

// WatchlistRequest creates or replaces a watchlist.
type WatchlistRequest struct {
	Name    string   `json:"name"`
	Symbols []string `json:"symbols"`
}

type addAssetRequest struct {
	Symbol string `json:"symbol"`
}

// ListWatchlists returns all watchlists of the account.
func (c *Client) ListWatchlists(ctx context.Context) ([]WatchlistSummary, error) {
	return callList[WatchlistSummary](ctx, c, request{
		name:   "watchlists.list",
		method: http.MethodGet,
		path:   "/watchlists",
	})
}

// CreateWatchlist creates a watchlist.
func (c *Client) CreateWatchlist(ctx context.Context, req WatchlistRequest) (*Watchlist, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("watchlist name is required")
	}
	return call[Watchlist](ctx, c, request{
		name:   "watchlists.create",
		method: http.MethodPost,
		path:   "/watchlists",
		body:   req,
	})
}

// GetWatchlist returns a watchlist by id.
func (c *Client) GetWatchlist(ctx context.Context, id string) (*Watchlist, error) {
	return c.watchlistByID(ctx, "watchlists.get", http.MethodGet, id, nil)
}

// UpdateWatchlist replaces the name and symbols of a watchlist.
func (c *Client) UpdateWatchlist(ctx context.Context, id string, req WatchlistRequest) (*Watchlist, error) {
	return c.watchlistByID(ctx, "watchlists.update", http.MethodPut, id, req)
}

// AddAssetToWatchlist appends symbol to a watchlist.
func (c *Client) AddAssetToWatchlist(ctx context.Context, id, symbol string) (*Watchlist, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	return c.watchlistByID(ctx, "watchlists.add_asset", http.MethodPost, id, addAssetRequest{Symbol: symbol})
}

// DeleteWatchlist deletes a watchlist by id.
func (c *Client) DeleteWatchlist(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("watchlist id is required")
	}
	return c.send(ctx, request{
		name:   "watchlists.delete",
		method: http.MethodDelete,
		path:   "/watchlists/" + pathID(id),
	}, nil)
}

// RemoveAssetFromWatchlist removes symbol from a watchlist and returns
// the updated list.
func (c *Client) RemoveAssetFromWatchlist(ctx context.Context, id, symbol string) (*Watchlist, error) {
	if id == "" {
		return nil, fmt.Errorf("watchlist id is required")
	}
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	return call[Watchlist](ctx, c, request{
		name:   "watchlists.remove_asset",
		method: http.MethodDelete,
		path:   "/watchlists/" + pathID(id) + "/" + pathID(symbol),
	})
}

// GetWatchlistByName returns a watchlist by name.
func (c *Client) GetWatchlistByName(ctx context.Context, name string) (*Watchlist, error) {
	return c.watchlistByName(ctx, "watchlists.get_by_name", http.MethodGet, name, nil)
}

// UpdateWatchlistByName replaces the name and symbols of the named watchlist.
func (c *Client) UpdateWatchlistByName(ctx context.Context, name string, req WatchlistRequest) (*Watchlist, error) {
	return c.watchlistByName(ctx, "watchlists.update_by_name", http.MethodPut, name, req)
}

// AddAssetToWatchlistByName appends symbol to the named watchlist.
func (c *Client) AddAssetToWatchlistByName(ctx context.Context, name, symbol string) (*Watchlist, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	return c.watchlistByName(ctx, "watchlists.add_asset_by_name", http.MethodPost, name, addAssetRequest{Symbol: symbol})
}

// DeleteWatchlistByName deletes the named watchlist.
func (c *Client) DeleteWatchlistByName(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("watchlist name is required")
	}
	return c.send(ctx, request{
		name:   "watchlists.delete_by_name",
		method: http.MethodDelete,
		path:   "/watchlists:by_name",
		query:  url.Values{"name": {name}},
	}, nil)
}

func (c *Client) watchlistByID(ctx context.Context, endpoint, method, id string, body any) (*Watchlist, error) {
	if id == "" {
		return nil, fmt.Errorf("watchlist id is required")
	}
	return call[Watchlist](ctx, c, request{
		name:   endpoint,
		method: method,
		path:   "/watchlists/" + pathID(id),
		body:   body,
	})
}

func (c *Client) watchlistByName(ctx context.Context, endpoint, method, name string, body any) (*Watchlist, error) {
	if name == "" {
		return nil, fmt.Errorf("watchlist name is required")
	}
	return call[Watchlist](ctx, c, request{
		name:   endpoint,
		method: method,
		path:   "/watchlists:by_name",
		query:  url.Values{"name": {name}},
		body:   body,
	})
}
