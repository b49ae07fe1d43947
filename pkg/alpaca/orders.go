package alpaca

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Order is a single order, or the parent of a multi-leg order.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	ClientOrderID  string          `json:"client_order_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at"`
	SubmittedAt    *time.Time      `json:"submitted_at"`
	FilledAt       *time.Time      `json:"filled_at"`
	ExpiredAt      *time.Time      `json:"expired_at"`
	ExpiresAt      *time.Time      `json:"expires_at"`
	CanceledAt     *time.Time      `json:"canceled_at"`
	FailedAt       *time.Time      `json:"failed_at"`
	ReplacedAt     *time.Time      `json:"replaced_at"`
	ReplacedBy     *uuid.UUID      `json:"replaced_by"`
	Replaces       *uuid.UUID      `json:"replaces"`
	AssetID        uuid.UUID       `json:"asset_id"`
	Symbol         string          `json:"symbol"`
	AssetClass     AssetClass      `json:"asset_class"`
	Notional       *Money          `json:"notional"`
	Qty            *NumberAsString `json:"qty"`
	FilledQty      NumberAsString  `json:"filled_qty"`
	FilledAvgPrice *Money          `json:"filled_avg_price"`
	OrderClass     OrderClass      `json:"order_class"`
	OrderType      OrderType       `json:"order_type"`
	Type           OrderType       `json:"type"`
	Side           Side            `json:"side"`
	PositionIntent PositionIntent  `json:"position_intent,omitempty"`
	TimeInForce    TimeInForce     `json:"time_in_force"`
	LimitPrice     *Money          `json:"limit_price"`
	StopPrice      *Money          `json:"stop_price"`
	Status         OrderStatus     `json:"status"`
	ExtendedHours  bool            `json:"extended_hours"`
	Legs           []Order         `json:"legs"`
	TrailPercent   *NumberAsString `json:"trail_percent"`
	TrailPrice     *Money          `json:"trail_price"`
	HWM            *Money          `json:"hwm"`
	Subtag         *string         `json:"subtag"`
	Source         *string         `json:"source"`
}

// TakeProfit is the profit-taking leg of a bracket order.
type TakeProfit struct {
	LimitPrice Money `json:"limit_price"`
}

// StopLoss is the protective leg of a bracket order.
type StopLoss struct {
	StopPrice  Money  `json:"stop_price"`
	LimitPrice *Money `json:"limit_price,omitempty"`
}

// OrderLeg is one leg of a multi-leg options order.
type OrderLeg struct {
	Symbol         string          `json:"symbol"`
	RatioQty       NumberAsString  `json:"ratio_qty"`
	Side           *Side           `json:"side,omitempty"`
	PositionIntent *PositionIntent `json:"position_intent,omitempty"`
}

// OrderRequest is the body of CreateOrder. Exactly one of Qty and Notional
// should be set.
type OrderRequest struct {
	Symbol         string          `json:"symbol"`
	Qty            *NumberAsString `json:"qty,omitempty"`
	Notional       *Money          `json:"notional,omitempty"`
	Side           Side            `json:"side"`
	Type           OrderType       `json:"type"`
	TimeInForce    TimeInForce     `json:"time_in_force"`
	LimitPrice     *Money          `json:"limit_price,omitempty"`
	StopPrice      *Money          `json:"stop_price,omitempty"`
	TrailPrice     *Money          `json:"trail_price,omitempty"`
	TrailPercent   *NumberAsString `json:"trail_percent,omitempty"`
	ExtendedHours  bool            `json:"extended_hours"`
	ClientOrderID  *string         `json:"client_order_id"`
	OrderClass     *OrderClass     `json:"order_class"`
	Legs           []OrderLeg      `json:"legs,omitempty"`
	TakeProfit     *TakeProfit     `json:"take_profit"`
	StopLoss       *StopLoss       `json:"stop_loss"`
	PositionIntent *PositionIntent `json:"position_intent"`
}

// ReplaceOrderRequest is the body of ReplaceOrder. Unset fields keep their
// current values.
type ReplaceOrderRequest struct {
	Qty           *NumberAsString `json:"qty,omitempty"`
	TimeInForce   *TimeInForce    `json:"time_in_force,omitempty"`
	LimitPrice    *Money          `json:"limit_price,omitempty"`
	StopPrice     *Money          `json:"stop_price,omitempty"`
	Trail         *Money          `json:"trail,omitempty"`
	ClientOrderID *string         `json:"client_order_id,omitempty"`
}

// ListOrdersParams filters ListOrders.
type ListOrdersParams struct {
	Status        *OrderQueryStatus
	Limit         *int
	After         *time.Time
	Until         *time.Time
	Direction     *SortDirection
	Nested        *bool
	Symbols       CommaSeparated
	Side          *Side
	AssetClass    CommaSeparated
	BeforeOrderID *uuid.UUID
	AfterOrderID  *uuid.UUID
}

// Values renders the parameters as a query string.
func (p *ListOrdersParams) Values() url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	setOptional(q, "status", p.Status, enumString)
	setOptional(q, "limit", p.Limit, strconv.Itoa)
	setOptional(q, "after", p.After, formatTimestamp)
	setOptional(q, "until", p.Until, formatTimestamp)
	setOptional(q, "direction", p.Direction, enumString)
	setOptional(q, "nested", p.Nested, formatBool)
	setList(q, "symbols", p.Symbols)
	setOptional(q, "side", p.Side, enumString)
	setList(q, "asset_class", p.AssetClass)
	setOptional(q, "before_order_id", p.BeforeOrderID, uuid.UUID.String)
	setOptional(q, "after_order_id", p.AfterOrderID, uuid.UUID.String)
	return q
}

// CancelledOrder is one entry of the multi-status CancelAllOrders response.
type CancelledOrder struct {
	ID     uuid.UUID `json:"id"`
	Status int       `json:"status"`
}

// CreateOrder submits a new order.
func (c *Client) CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error) {
	if req == nil || req.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	return call[Order](ctx, c, request{
		name:   "orders.create",
		method: http.MethodPost,
		path:   "/orders",
		body:   req,
	})
}

// ListOrders returns orders matching params. A nil params lists open orders.
func (c *Client) ListOrders(ctx context.Context, params *ListOrdersParams) ([]Order, error) {
	return callList[Order](ctx, c, request{
		name:   "orders.list",
		method: http.MethodGet,
		path:   "/orders",
		query:  params.Values(),
	})
}

// CancelAllOrders cancels every open order. The API answers 207 with one
// status per order.
func (c *Client) CancelAllOrders(ctx context.Context) ([]CancelledOrder, error) {
	return callList[CancelledOrder](ctx, c, request{
		name:   "orders.cancel_all",
		method: http.MethodDelete,
		path:   "/orders",
	})
}

// GetOrder returns a single order by id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("orderID is required")
	}
	return call[Order](ctx, c, request{
		name:   "orders.get",
		method: http.MethodGet,
		path:   "/orders/" + pathID(orderID),
	})
}

// GetOrderByClientOrderID returns the order submitted with clientOrderID.
func (c *Client) GetOrderByClientOrderID(ctx context.Context, clientOrderID string) (*Order, error) {
	if clientOrderID == "" {
		return nil, fmt.Errorf("clientOrderID is required")
	}
	return call[Order](ctx, c, request{
		name:   "orders.get_by_client_id",
		method: http.MethodGet,
		path:   "/orders:by_client_order_id",
		query:  url.Values{"client_order_id": {clientOrderID}},
	})
}

// ReplaceOrder amends an open order. The API returns the replacement order.
func (c *Client) ReplaceOrder(ctx context.Context, orderID string, req *ReplaceOrderRequest) (*Order, error) {
	if orderID == "" {
		return nil, fmt.Errorf("orderID is required")
	}
	if req == nil {
		req = &ReplaceOrderRequest{}
	}
	return call[Order](ctx, c, request{
		name:   "orders.replace",
		method: http.MethodPatch,
		path:   "/orders/" + pathID(orderID),
		body:   req,
	})
}

// CancelOrder requests cancellation of an open order.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("orderID is required")
	}
	return c.send(ctx, request{
		name:   "orders.cancel",
		method: http.MethodDelete,
		path:   "/orders/" + pathID(orderID),
	}, nil)
}
