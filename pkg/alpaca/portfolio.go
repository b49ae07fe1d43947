package alpaca

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// PortfolioHistory is the equity and profit/loss series of the account.
// The series are index-aligned with Timestamp (unix seconds).
type PortfolioHistory struct {
	Timestamp     []int64              `json:"timestamp"`
	Equity        []float64            `json:"equity"`
	ProfitLoss    []float64            `json:"profit_loss"`
	ProfitLossPct []float64            `json:"profit_loss_pct"`
	BaseValue     Money                `json:"base_value"`
	BaseValueAsOf *Date                `json:"base_value_asof,omitempty"`
	TimeFrame     string               `json:"timeframe"`
	Cashflow      map[string][]float64 `json:"cashflow,omitempty"`
}

// Times converts Timestamp to time values in UTC.
func (h *PortfolioHistory) Times() []time.Time {
	out := make([]time.Time, len(h.Timestamp))
	for i, ts := range h.Timestamp {
		out[i] = time.Unix(ts, 0).UTC()
	}
	return out
}

// PortfolioHistoryParams filters GetPortfolioHistory.
type PortfolioHistoryParams struct {
	Period            *HistoryPeriod
	TimeFrame         *TimeFrame
	IntradayReporting *IntradayReporting
	Start             *time.Time
	End               *time.Time
	PnLReset          *PnLReset
	ExtendedHours     *bool
	CashflowTypes     *CashflowTypes
}

// Values renders the parameters as a query string.
func (p *PortfolioHistoryParams) Values() url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	setOptional(q, "period", p.Period, HistoryPeriod.String)
	setOptional(q, "timeframe", p.TimeFrame, TimeFrame.String)
	setOptional(q, "intraday_reporting", p.IntradayReporting, enumString)
	setOptional(q, "start", p.Start, formatTimestamp)
	setOptional(q, "end", p.End, formatTimestamp)
	setOptional(q, "pnl_reset", p.PnLReset, enumString)
	setOptional(q, "extended_hours", p.ExtendedHours, formatBool)
	setOptional(q, "cashflow_types", p.CashflowTypes, enumString)
	return q
}

// GetPortfolioHistory returns the account's equity history.
func (c *Client) GetPortfolioHistory(ctx context.Context, params *PortfolioHistoryParams) (*PortfolioHistory, error) {
	return call[PortfolioHistory](ctx, c, request{
		name:   "portfolio.history",
		method: http.MethodGet,
		path:   "/account/portfolio/history",
		query:  params.Values(),
	})
}
