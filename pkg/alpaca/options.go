package alpaca

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// Deliverable is what one option contract delivers on exercise.
type Deliverable struct {
	Type                 DeliverableType  `json:"type"`
	Symbol               string           `json:"symbol"`
	AssetID              *uuid.UUID       `json:"asset_id,omitempty"`
	Amount               NumberAsString   `json:"amount"`
	AllocationPercentage NumberAsString   `json:"allocation_percentage"`
	SettlementType       string           `json:"settlement_type"`
	SettlementMethod     SettlementMethod `json:"settlement_method"`
	DelayedSettlement    bool             `json:"delayed_settlement"`
}

// OptionContract is a listed option.
type OptionContract struct {
	ID                uuid.UUID     `json:"id"`
	Symbol            string        `json:"symbol"`
	Name              string        `json:"name"`
	Status            OptionStatus  `json:"status"`
	Tradable          bool          `json:"tradable"`
	ExpirationDate    Date          `json:"expiration_date"`
	RootSymbol        string        `json:"root_symbol,omitempty"`
	UnderlyingSymbol  string        `json:"underlying_symbol"`
	UnderlyingAssetID uuid.UUID     `json:"underlying_asset_id"`
	Type              OptionType    `json:"type"`
	Style             OptionStyle   `json:"style"`
	StrikePrice       Money         `json:"strike_price"`
	Multiplier        IntAsString   `json:"multiplier"`
	Size              IntAsString   `json:"size"`
	OpenInterest      *IntAsString  `json:"open_interest"`
	OpenInterestDate  *Date         `json:"open_interest_date"`
	ClosePrice        *Money        `json:"close_price"`
	ClosePriceDate    *Date         `json:"close_price_date"`
	Deliverables      []Deliverable `json:"deliverables,omitempty"`
	PPInd             bool          `json:"ppind"`
}

// OptionContractsPage is one page of ListOptionContracts.
type OptionContractsPage struct {
	OptionContracts []OptionContract `json:"option_contracts"`
	NextPageToken   *string          `json:"next_page_token"`
}

// ListOptionContractsParams filters ListOptionContracts. ShowDeliverables
// is always sent.
type ListOptionContractsParams struct {
	UnderlyingSymbols CommaSeparated
	ShowDeliverables  bool
	Status            *OptionStatus
	ExpirationDate    *Date
	ExpirationDateGTE *Date
	ExpirationDateLTE *Date
	RootSymbol        string
	Type              *OptionType
	Style             *OptionStyle
	StrikePriceGTE    *Money
	StrikePriceLTE    *Money
	PageToken         string
	Limit             *int
	PPInd             *bool
}

// Values renders the parameters as a query string.
func (p *ListOptionContractsParams) Values() url.Values {
	q := url.Values{}
	if p == nil {
		p = &ListOptionContractsParams{}
	}
	setList(q, "underlying_symbols", p.UnderlyingSymbols)
	q.Set("show_deliverables", strconv.FormatBool(p.ShowDeliverables))
	setOptional(q, "status", p.Status, enumString)
	setOptional(q, "expiration_date", p.ExpirationDate, formatDate)
	setOptional(q, "expiration_date_gte", p.ExpirationDateGTE, formatDate)
	setOptional(q, "expiration_date_lte", p.ExpirationDateLTE, formatDate)
	setString(q, "root_symbol", p.RootSymbol)
	setOptional(q, "type", p.Type, enumString)
	setOptional(q, "style", p.Style, enumString)
	setOptional(q, "strike_price_gte", p.StrikePriceGTE, formatMoney)
	setOptional(q, "strike_price_lte", p.StrikePriceLTE, formatMoney)
	setString(q, "page_token", p.PageToken)
	setOptional(q, "limit", p.Limit, strconv.Itoa)
	setOptional(q, "ppind", p.PPInd, formatBool)
	return q
}

// ListOptionContracts returns one page of contracts. Pass NextPageToken
// back as PageToken to fetch the next page.
func (c *Client) ListOptionContracts(ctx context.Context, params *ListOptionContractsParams) (*OptionContractsPage, error) {
	return call[OptionContractsPage](ctx, c, request{
		name:   "options.list",
		method: http.MethodGet,
		path:   "/options/contracts",
		query:  params.Values(),
	})
}

// GetOptionContract returns one contract by OCC symbol or id.
func (c *Client) GetOptionContract(ctx context.Context, symbolOrID string) (*OptionContract, error) {
	if symbolOrID == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	return call[OptionContract](ctx, c, request{
		name:   "options.get",
		method: http.MethodGet,
		path:   "/options/contracts/" + pathID(symbolOrID),
	})
}
