package alpaca

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Account is the trading account tied to the API key.
type Account struct {
	ID                       uuid.UUID     `json:"id"`
	AccountNumber            string        `json:"account_number"`
	Status                   AccountStatus `json:"status"`
	CryptoStatus             AccountStatus `json:"crypto_status"`
	Currency                 Currency      `json:"currency"`
	OptionsApprovedLevel     int           `json:"options_approved_level"`
	OptionsTradingLevel      int           `json:"options_trading_level"`
	BuyingPower              Money         `json:"buying_power"`
	RegTBuyingPower          Money         `json:"regt_buying_power"`
	DaytradingBuyingPower    Money         `json:"daytrading_buying_power"`
	EffectiveBuyingPower     Money         `json:"effective_buying_power"`
	NonMarginableBuyingPower Money         `json:"non_marginable_buying_power"`
	OptionsBuyingPower       Money         `json:"options_buying_power"`
	BodDtbp                  Money         `json:"bod_dtbp"`
	Cash                     Money         `json:"cash"`
	AccruedFees              Money         `json:"accrued_fees"`
	PortfolioValue           Money         `json:"portfolio_value"`
	PatternDayTrader         bool          `json:"pattern_day_trader"`
	TradingBlocked           bool          `json:"trading_blocked"`
	TransfersBlocked         bool          `json:"transfers_blocked"`
	AccountBlocked           bool          `json:"account_blocked"`
	CreatedAt                time.Time     `json:"created_at"`
	TradeSuspendedByUser     bool          `json:"trade_suspended_by_user"`
	Multiplier               IntAsString   `json:"multiplier"`
	ShortingEnabled          bool          `json:"shorting_enabled"`
	Equity                   Money         `json:"equity"`
	LastEquity               Money         `json:"last_equity"`
	LongMarketValue          Money         `json:"long_market_value"`
	ShortMarketValue         Money         `json:"short_market_value"`
	PositionMarketValue      Money         `json:"position_market_value"`
	InitialMargin            Money         `json:"initial_margin"`
	MaintenanceMargin        Money         `json:"maintenance_margin"`
	LastMaintenanceMargin    Money         `json:"last_maintenance_margin"`
	SMA                      Money         `json:"sma"`
	DaytradeCount            int           `json:"daytrade_count"`
	BalanceAsOf              *Date         `json:"balance_asof,omitempty"`
	CryptoTier               int           `json:"crypto_tier"`
	IntradayAdjustments      Money         `json:"intraday_adjustments"`
	PendingRegTAFFees        *Money        `json:"pending_reg_taf_fees,omitempty"`
	PendingTransferIn        *Money        `json:"pending_transfer_in,omitempty"`
	PendingTransferOut       *Money        `json:"pending_transfer_out,omitempty"`
}

// GetAccount returns the account for the configured key pair.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	return call[Account](ctx, c, request{
		name:   "account.get",
		method: http.MethodGet,
		path:   "/account",
	})
}
