package alpaca

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// unmarshalEnum decodes a JSON string into one of the declared variants.
// Tokens outside the set fail with *UnknownVariantError; JSON null leaves
// dst untouched.
func unmarshalEnum[T ~string](data []byte, dst *T, variants []T) error {
	typ := reflect.TypeFor[T]().Name()
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &UnknownVariantError{Type: typ, Value: string(data)}
	}
	for _, v := range variants {
		if string(v) == raw {
			*dst = v
			return nil
		}
	}
	return &UnknownVariantError{Type: typ, Value: raw}
}

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

var sideVariants = []Side{SideBuy, SideSell}

func (s *Side) UnmarshalJSON(data []byte) error { return unmarshalEnum(data, s, sideVariants) }

// OrderType is the execution type of an order.
type OrderType string

const (
	OrderTypeMarket       OrderType = "market"
	OrderTypeLimit        OrderType = "limit"
	OrderTypeStop         OrderType = "stop"
	OrderTypeStopLimit    OrderType = "stop_limit"
	OrderTypeTrailingStop OrderType = "trailing_stop"
)

var orderTypeVariants = []OrderType{
	OrderTypeMarket, OrderTypeLimit, OrderTypeStop, OrderTypeStopLimit, OrderTypeTrailingStop,
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, orderTypeVariants)
}

// TimeInForce controls how long an order stays working.
type TimeInForce string

const (
	TimeInForceDay TimeInForce = "day"
	TimeInForceGTC TimeInForce = "gtc"
	TimeInForceOPG TimeInForce = "opg"
	TimeInForceCLS TimeInForce = "cls"
	TimeInForceIOC TimeInForce = "ioc"
	TimeInForceFOK TimeInForce = "fok"
)

var timeInForceVariants = []TimeInForce{
	TimeInForceDay, TimeInForceGTC, TimeInForceOPG, TimeInForceCLS, TimeInForceIOC, TimeInForceFOK,
}

func (t *TimeInForce) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, timeInForceVariants)
}

// OrderClass groups related orders. Plain orders come back with an empty
// order_class, which decodes to OrderClassEmpty.
type OrderClass string

const (
	OrderClassEmpty    OrderClass = ""
	OrderClassSimple   OrderClass = "simple"
	OrderClassBracket  OrderClass = "bracket"
	OrderClassOCO      OrderClass = "oco"
	OrderClassOTO      OrderClass = "oto"
	OrderClassMultileg OrderClass = "mleg"
)

var orderClassVariants = []OrderClass{
	OrderClassEmpty, OrderClassSimple, OrderClassBracket, OrderClassOCO, OrderClassOTO, OrderClassMultileg,
}

func (c *OrderClass) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, c, orderClassVariants)
}

// PositionIntent tells the broker whether an order opens or closes a position.
type PositionIntent string

const (
	PositionIntentBuyToOpen   PositionIntent = "buy_to_open"
	PositionIntentBuyToClose  PositionIntent = "buy_to_close"
	PositionIntentSellToOpen  PositionIntent = "sell_to_open"
	PositionIntentSellToClose PositionIntent = "sell_to_close"
)

var positionIntentVariants = []PositionIntent{
	PositionIntentBuyToOpen, PositionIntentBuyToClose, PositionIntentSellToOpen, PositionIntentSellToClose,
}

func (p *PositionIntent) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, p, positionIntentVariants)
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusNew                OrderStatus = "new"
	OrderStatusPartiallyFilled    OrderStatus = "partially_filled"
	OrderStatusFilled             OrderStatus = "filled"
	OrderStatusDoneForDay         OrderStatus = "done_for_day"
	OrderStatusCanceled           OrderStatus = "canceled"
	OrderStatusExpired            OrderStatus = "expired"
	OrderStatusReplaced           OrderStatus = "replaced"
	OrderStatusPendingCancel      OrderStatus = "pending_cancel"
	OrderStatusPendingReplace     OrderStatus = "pending_replace"
	OrderStatusAccepted           OrderStatus = "accepted"
	OrderStatusPendingNew         OrderStatus = "pending_new"
	OrderStatusAcceptedForBidding OrderStatus = "accepted_for_bidding"
	OrderStatusStopped            OrderStatus = "stopped"
	OrderStatusRejected           OrderStatus = "rejected"
	OrderStatusSuspended          OrderStatus = "suspended"
	OrderStatusCalculated         OrderStatus = "calculated"
	OrderStatusHeld               OrderStatus = "held"
)

var orderStatusVariants = []OrderStatus{
	OrderStatusNew, OrderStatusPartiallyFilled, OrderStatusFilled, OrderStatusDoneForDay,
	OrderStatusCanceled, OrderStatusExpired, OrderStatusReplaced, OrderStatusPendingCancel,
	OrderStatusPendingReplace, OrderStatusAccepted, OrderStatusPendingNew, OrderStatusAcceptedForBidding,
	OrderStatusStopped, OrderStatusRejected, OrderStatusSuspended, OrderStatusCalculated, OrderStatusHeld,
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, orderStatusVariants)
}

// OrderQueryStatus filters the order list.
type OrderQueryStatus string

const (
	OrderQueryStatusOpen   OrderQueryStatus = "open"
	OrderQueryStatusClosed OrderQueryStatus = "closed"
	OrderQueryStatusAll    OrderQueryStatus = "all"
)

var orderQueryStatusVariants = []OrderQueryStatus{
	OrderQueryStatusOpen, OrderQueryStatusClosed, OrderQueryStatusAll,
}

func (s *OrderQueryStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, orderQueryStatusVariants)
}

// SortDirection orders list results chronologically.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

var sortDirectionVariants = []SortDirection{SortAsc, SortDesc}

func (d *SortDirection) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, d, sortDirectionVariants)
}

// AssetClass is the kind of instrument.
type AssetClass string

const (
	AssetClassUSEquity AssetClass = "us_equity"
	AssetClassUSOption AssetClass = "us_option"
	AssetClassCrypto   AssetClass = "crypto"
)

var assetClassVariants = []AssetClass{AssetClassUSEquity, AssetClassUSOption, AssetClassCrypto}

func (c *AssetClass) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, c, assetClassVariants)
}

// Exchange is the primary listing venue of an asset.
type Exchange string

const (
	ExchangeAMEX     Exchange = "AMEX"
	ExchangeARCA     Exchange = "ARCA"
	ExchangeBATS     Exchange = "BATS"
	ExchangeNYSE     Exchange = "NYSE"
	ExchangeNASDAQ   Exchange = "NASDAQ"
	ExchangeNYSEARCA Exchange = "NYSEARCA"
	ExchangeOTC      Exchange = "OTC"
	ExchangePINK     Exchange = "PINK"
	ExchangeIEXG     Exchange = "IEXG"
	ExchangeCBOE     Exchange = "CBOE"
	ExchangeCrypto   Exchange = "CRYPTO"
)

var exchangeVariants = []Exchange{
	ExchangeAMEX, ExchangeARCA, ExchangeBATS, ExchangeNYSE, ExchangeNASDAQ, ExchangeNYSEARCA,
	ExchangeOTC, ExchangePINK, ExchangeIEXG, ExchangeCBOE, ExchangeCrypto,
}

func (e *Exchange) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, e, exchangeVariants)
}

// AssetStatus reports whether an asset is tradable on the platform.
type AssetStatus string

const (
	AssetStatusActive   AssetStatus = "active"
	AssetStatusInactive AssetStatus = "inactive"
)

var assetStatusVariants = []AssetStatus{AssetStatusActive, AssetStatusInactive}

func (s *AssetStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, assetStatusVariants)
}

// AccountStatus is the onboarding state of an account. The wire form is UPPERCASE.
type AccountStatus string

const (
	AccountStatusOnboarding       AccountStatus = "ONBOARDING"
	AccountStatusSubmissionFailed AccountStatus = "SUBMISSION_FAILED"
	AccountStatusSubmitted        AccountStatus = "SUBMITTED"
	AccountStatusAccountUpdated   AccountStatus = "ACCOUNT_UPDATED"
	AccountStatusApprovalPending  AccountStatus = "APPROVAL_PENDING"
	AccountStatusActive           AccountStatus = "ACTIVE"
	AccountStatusRejected         AccountStatus = "REJECTED"
	AccountStatusInactive         AccountStatus = "INACTIVE"
)

var accountStatusVariants = []AccountStatus{
	AccountStatusOnboarding, AccountStatusSubmissionFailed, AccountStatusSubmitted, AccountStatusAccountUpdated,
	AccountStatusApprovalPending, AccountStatusActive, AccountStatusRejected, AccountStatusInactive,
}

func (s *AccountStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, accountStatusVariants)
}

// Currency of account balances.
type Currency string

const CurrencyUSD Currency = "USD"

var currencyVariants = []Currency{CurrencyUSD}

func (c *Currency) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, c, currencyVariants)
}

// PositionSide is long or short.
type PositionSide string

const (
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)

var positionSideVariants = []PositionSide{PositionSideLong, PositionSideShort}

func (s *PositionSide) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, positionSideVariants)
}

// OptionType is call or put.
type OptionType string

const (
	OptionTypeCall OptionType = "call"
	OptionTypePut  OptionType = "put"
)

var optionTypeVariants = []OptionType{OptionTypeCall, OptionTypePut}

func (t *OptionType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, optionTypeVariants)
}

// OptionStyle is the exercise style of a contract.
type OptionStyle string

const (
	OptionStyleAmerican OptionStyle = "american"
	OptionStyleEuropean OptionStyle = "european"
)

var optionStyleVariants = []OptionStyle{OptionStyleAmerican, OptionStyleEuropean}

func (s *OptionStyle) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, optionStyleVariants)
}

// OptionStatus reports whether a contract is listed.
type OptionStatus string

const (
	OptionStatusActive   OptionStatus = "active"
	OptionStatusInactive OptionStatus = "inactive"
)

var optionStatusVariants = []OptionStatus{OptionStatusActive, OptionStatusInactive}

func (s *OptionStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, optionStatusVariants)
}

// DeliverableType is what a contract delivers on exercise.
type DeliverableType string

const (
	DeliverableTypeCash   DeliverableType = "cash"
	DeliverableTypeEquity DeliverableType = "equity"
)

var deliverableTypeVariants = []DeliverableType{DeliverableTypeCash, DeliverableTypeEquity}

func (t *DeliverableType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, deliverableTypeVariants)
}

// SettlementMethod is the clearing method of a deliverable.
type SettlementMethod string

const (
	SettlementMethodBTOB SettlementMethod = "BTOB"
	SettlementMethodCADF SettlementMethod = "CADF"
	SettlementMethodCAFX SettlementMethod = "CAFX"
	SettlementMethodCCC  SettlementMethod = "CCC"
)

var settlementMethodVariants = []SettlementMethod{
	SettlementMethodBTOB, SettlementMethodCADF, SettlementMethodCAFX, SettlementMethodCCC,
}

func (m *SettlementMethod) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, m, settlementMethodVariants)
}

// CorporateActionType is the kind of a corporate action announcement.
type CorporateActionType string

const (
	CorporateActionDividend CorporateActionType = "dividend"
	CorporateActionMerger   CorporateActionType = "merger"
	CorporateActionSpinoff  CorporateActionType = "spinoff"
	CorporateActionSplit    CorporateActionType = "split"
)

var corporateActionTypeVariants = []CorporateActionType{
	CorporateActionDividend, CorporateActionMerger, CorporateActionSpinoff, CorporateActionSplit,
}

func (t *CorporateActionType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, corporateActionTypeVariants)
}

// AnnouncementDateType selects which date since/until filter on.
type AnnouncementDateType string

const (
	AnnouncementDateDeclaration AnnouncementDateType = "declaration_date"
	AnnouncementDateEx          AnnouncementDateType = "ex_date"
	AnnouncementDateRecord      AnnouncementDateType = "record_date"
	AnnouncementDatePayable     AnnouncementDateType = "payable_date"
)

var announcementDateTypeVariants = []AnnouncementDateType{
	AnnouncementDateDeclaration, AnnouncementDateEx, AnnouncementDateRecord, AnnouncementDatePayable,
}

func (t *AnnouncementDateType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, announcementDateTypeVariants)
}

// CalendarDateType selects trading or settlement dates for the calendar.
type CalendarDateType string

const (
	CalendarDateTrading    CalendarDateType = "TRADING"
	CalendarDateSettlement CalendarDateType = "SETTLEMENT"
)

var calendarDateTypeVariants = []CalendarDateType{CalendarDateTrading, CalendarDateSettlement}

func (t *CalendarDateType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, calendarDateTypeVariants)
}

// IntradayReporting selects which sessions intraday history covers.
type IntradayReporting string

const (
	IntradayMarketHours   IntradayReporting = "market_hours"
	IntradayExtendedHours IntradayReporting = "extended_hours"
	IntradayContinuous    IntradayReporting = "continuous"
)

var intradayReportingVariants = []IntradayReporting{
	IntradayMarketHours, IntradayExtendedHours, IntradayContinuous,
}

func (r *IntradayReporting) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, r, intradayReportingVariants)
}

// PnLReset controls whether profit/loss resets each day.
type PnLReset string

const (
	PnLResetPerDay  PnLReset = "per_day"
	PnLResetNoReset PnLReset = "no_reset"
)

var pnlResetVariants = []PnLReset{PnLResetPerDay, PnLResetNoReset}

func (r *PnLReset) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, r, pnlResetVariants)
}

// CryptoNetwork is a blockchain supported for funding wallets.
type CryptoNetwork string

const (
	NetworkEthereum CryptoNetwork = "ethereum"
	NetworkSolana   CryptoNetwork = "solana"
)

var cryptoNetworkVariants = []CryptoNetwork{NetworkEthereum, NetworkSolana}

func (n *CryptoNetwork) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, n, cryptoNetworkVariants)
}

// TransferDirection is the direction of a crypto transfer.
type TransferDirection string

const (
	TransferIncoming TransferDirection = "INCOMING"
	TransferOutgoing TransferDirection = "OUTGOING"
)

var transferDirectionVariants = []TransferDirection{TransferIncoming, TransferOutgoing}

func (d *TransferDirection) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, d, transferDirectionVariants)
}

// TransferStatus is the state of a crypto transfer.
type TransferStatus string

const (
	TransferProcessing TransferStatus = "PROCESSING"
	TransferFailed     TransferStatus = "FAILED"
	TransferComplete   TransferStatus = "COMPLETE"
)

var transferStatusVariants = []TransferStatus{TransferProcessing, TransferFailed, TransferComplete}

func (s *TransferStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, transferStatusVariants)
}

// WhitelistStatus is the approval state of a whitelisted address.
type WhitelistStatus string

const (
	WhitelistApproved WhitelistStatus = "APPROVED"
	WhitelistPending  WhitelistStatus = "PENDING"
)

var whitelistStatusVariants = []WhitelistStatus{WhitelistApproved, WhitelistPending}

func (s *WhitelistStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, whitelistStatusVariants)
}
