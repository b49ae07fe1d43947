package alpaca

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Asset is a tradable instrument.
type Asset struct {
	ID                           uuid.UUID   `json:"id"`
	Class                        AssetClass  `json:"class"`
	Cusip                        string      `json:"cusip,omitempty"`
	Exchange                     Exchange    `json:"exchange"`
	Symbol                       string      `json:"symbol"`
	Name                         string      `json:"name"`
	Status                       AssetStatus `json:"status"`
	Tradable                     bool        `json:"tradable"`
	Marginable                   bool        `json:"marginable"`
	MaintenanceMarginRequirement IntAsString `json:"maintenance_margin_requirement"`
	MarginRequirementLong        IntAsString `json:"margin_requirement_long"`
	MarginRequirementShort       IntAsString `json:"margin_requirement_short"`
	Shortable                    bool        `json:"shortable"`
	EasyToBorrow                 bool        `json:"easy_to_borrow"`
	Fractionable                 bool        `json:"fractionable"`
	Attributes                   []string    `json:"attributes"`
}

// HasAttribute reports whether the asset carries attr, e.g. "has_options".
func (a *Asset) HasAttribute(attr string) bool {
	for _, v := range a.Attributes {
		if v == attr {
			return true
		}
	}
	return false
}

// ListAssetsParams filters ListAssets.
type ListAssetsParams struct {
	Status     *AssetStatus
	AssetClass *AssetClass
	Exchange   *Exchange
	Attributes CommaSeparated
}

// Values renders the parameters as a query string.
func (p *ListAssetsParams) Values() url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	setOptional(q, "status", p.Status, enumString)
	setOptional(q, "asset_class", p.AssetClass, enumString)
	setOptional(q, "exchange", p.Exchange, enumString)
	setList(q, "attributes", p.Attributes)
	return q
}

// ListAssets returns the assets matching params.
func (c *Client) ListAssets(ctx context.Context, params *ListAssetsParams) ([]Asset, error) {
	return callList[Asset](ctx, c, request{
		name:   "assets.list",
		method: http.MethodGet,
		path:   "/assets",
		query:  params.Values(),
	})
}

// GetAsset returns one asset by symbol or asset id.
func (c *Client) GetAsset(ctx context.Context, symbolOrID string) (*Asset, error) {
	if symbolOrID == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	return call[Asset](ctx, c, request{
		name:   "assets.get",
		method: http.MethodGet,
		path:   "/assets/" + pathID(symbolOrID),
	})
}
