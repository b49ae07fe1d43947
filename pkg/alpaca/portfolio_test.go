package alpaca

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetPortfolioHistory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assertAuthHeaders(t, r)
		assert.Equal(t, "/v2/account/portfolio/history", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "30D", q.Get("period"))
		assert.Equal(t, "5Min", q.Get("timeframe"))
		assert.Equal(t, "market_hours", q.Get("intraday_reporting"))
		assert.Equal(t, "2025-01-21T05:32:12Z", q.Get("start"))
		assert.Equal(t, "2025-02-21T05:32:12Z", q.Get("end"))
		assert.Equal(t, "per_day", q.Get("pnl_reset"))
		assert.Equal(t, "true", q.Get("extended_hours"))
		assert.Equal(t, "ALL", q.Get("cashflow_types"))

		respond(w, http.StatusOK, `{
			"timestamp": [1737437532, 1737437832],
			"equity": [100000, 100012.5],
			"profit_loss": [0, 12.5],
			"profit_loss_pct": [0.001, 0.002],
			"base_value": 100000,
			"base_value_asof": "2023-10-20",
			"timeframe": "15Min",
			"cashflow": {}
		}`)
	})

	start := time.Date(2025, 1, 21, 5, 32, 12, 0, time.UTC)
	end := time.Date(2025, 2, 21, 5, 32, 12, 0, time.UTC)
	history, err := client.GetPortfolioHistory(context.Background(), &PortfolioHistoryParams{
		Period:            Ptr(PeriodDays(30)),
		TimeFrame:         Ptr(TimeFrameMinutes(5)),
		IntradayReporting: Ptr(IntradayMarketHours),
		Start:             &start,
		End:               &end,
		PnLReset:          Ptr(PnLResetPerDay),
		ExtendedHours:     Ptr(true),
		CashflowTypes:     Ptr(CashflowAll),
	})
	require.NoError(t, err)

	assert.Equal(t, Money(100000), history.BaseValue)
	require.NotNil(t, history.BaseValueAsOf)
	assert.Equal(t, "2023-10-20", history.BaseValueAsOf.String())
	assert.Equal(t, []float64{0.001, 0.002}, history.ProfitLossPct)
	assert.Empty(t, history.Cashflow)
	assert.Equal(t, "15Min", history.TimeFrame)

	times := history.Times()
	require.Len(t, times, 2)
	assert.Equal(t, time.Date(2025, 1, 21, 5, 32, 12, 0, time.UTC), times[0])
}

func TestClient_GetPortfolioHistory_NoParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		respond(w, http.StatusOK, `{"timestamp":[],"equity":[],"profit_loss":[],"profit_loss_pct":[],"base_value":"0","timeframe":"1D"}`)
	})

	history, err := client.GetPortfolioHistory(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, history.Times())
	assert.Nil(t, history.BaseValueAsOf)
}
