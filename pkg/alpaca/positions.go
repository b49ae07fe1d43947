package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// Position is an open position in one asset.
type Position struct {
	AssetID                uuid.UUID       `json:"asset_id"`
	Symbol                 string          `json:"symbol"`
	Exchange               Exchange        `json:"exchange"`
	AssetClass             AssetClass      `json:"asset_class"`
	AssetMarginable        bool            `json:"asset_marginable"`
	AvgEntryPrice          Money           `json:"avg_entry_price"`
	Qty                    NumberAsString  `json:"qty"`
	QtyAvailable           *NumberAsString `json:"qty_available,omitempty"`
	Side                   PositionSide    `json:"side"`
	MarketValue            Money           `json:"market_value"`
	CostBasis              Money           `json:"cost_basis"`
	UnrealizedPL           Money           `json:"unrealized_pl"`
	UnrealizedPLPC         NumberAsString  `json:"unrealized_plpc"`
	UnrealizedIntradayPL   Money           `json:"unrealized_intraday_pl"`
	UnrealizedIntradayPLPC NumberAsString  `json:"unrealized_intraday_plpc"`
	CurrentPrice           Money           `json:"current_price"`
	LastdayPrice           Money           `json:"lastday_price"`
	ChangeToday            NumberAsString  `json:"change_today"`
}

// ClosePositionParams selects how much of a position to close. Build it
// with CloseQty or ClosePercentage; the zero value closes everything.
type ClosePositionParams struct {
	Qty        *NumberAsString
	Percentage *NumberAsString
}

// CloseQty closes qty units of the position.
func CloseQty(qty float64) ClosePositionParams {
	return ClosePositionParams{Qty: Ptr(NumberAsString(qty))}
}

// ClosePercentage closes pct percent of the position.
func ClosePercentage(pct float64) ClosePositionParams {
	return ClosePositionParams{Percentage: Ptr(NumberAsString(pct))}
}

// Values renders the parameters as a query string.
func (p ClosePositionParams) Values() url.Values {
	q := url.Values{}
	setOptional(q, "qty", p.Qty, NumberAsString.String)
	setOptional(q, "percentage", p.Percentage, NumberAsString.String)
	return q
}

// ClosePositionResult is one entry of the multi-status CloseAllPositions
// response. Body holds the closing order on success and an error body
// otherwise.
type ClosePositionResult struct {
	Symbol string          `json:"symbol"`
	Status IntAsString     `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Succeeded reports whether the position was accepted for closing.
func (r ClosePositionResult) Succeeded() bool {
	return r.Status >= 200 && r.Status < 300
}

// Order decodes the closing order of a successful entry.
func (r ClosePositionResult) Order() (*Order, error) {
	if !r.Succeeded() {
		return nil, r.Err()
	}
	var order Order
	if err := json.Unmarshal(r.Body, &order); err != nil {
		return nil, newDecodeError(&order, r.Body, err)
	}
	return &order, nil
}

// Err returns the broker's error for a failed entry, or nil on success.
func (r ClosePositionResult) Err() error {
	if r.Succeeded() {
		return nil
	}
	return newAPIError(int(r.Status), r.Body)
}

// ListPositions returns all open positions.
func (c *Client) ListPositions(ctx context.Context) ([]Position, error) {
	return callList[Position](ctx, c, request{
		name:   "positions.list",
		method: http.MethodGet,
		path:   "/positions",
	})
}

// GetPosition returns the open position for a symbol or asset id.
func (c *Client) GetPosition(ctx context.Context, symbolOrID string) (*Position, error) {
	if symbolOrID == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	return call[Position](ctx, c, request{
		name:   "positions.get",
		method: http.MethodGet,
		path:   "/positions/" + pathID(symbolOrID),
	})
}

// CloseAllPositions liquidates every open position, optionally cancelling
// open orders first.
func (c *Client) CloseAllPositions(ctx context.Context, cancelOrders bool) ([]ClosePositionResult, error) {
	return callList[ClosePositionResult](ctx, c, request{
		name:   "positions.close_all",
		method: http.MethodDelete,
		path:   "/positions",
		query:  url.Values{"cancel_orders": {strconv.FormatBool(cancelOrders)}},
	})
}

// ClosePosition liquidates all or part of one position and returns the
// closing order.
func (c *Client) ClosePosition(ctx context.Context, symbolOrID string, params ClosePositionParams) (*Order, error) {
	if symbolOrID == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if params.Qty != nil && params.Percentage != nil {
		return nil, fmt.Errorf("qty and percentage are mutually exclusive")
	}
	return call[Order](ctx, c, request{
		name:   "positions.close",
		method: http.MethodDelete,
		path:   "/positions/" + pathID(symbolOrID),
		query:  params.Values(),
	})
}

// ExerciseOption exercises a held options position.
func (c *Client) ExerciseOption(ctx context.Context, symbolOrID string) error {
	if symbolOrID == "" {
		return fmt.Errorf("symbol is required")
	}
	return c.send(ctx, request{
		name:   "positions.exercise",
		method: http.MethodPost,
		path:   "/positions/" + pathID(symbolOrID) + "/exercise",
	}, nil)
}
