package alpaca

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ListOptionContracts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assertAuthHeaders(t, r)
		assert.Equal(t, "/v2/options/contracts", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "AAPL,TSLA", q.Get("underlying_symbols"))
		assert.Equal(t, "true", q.Get("show_deliverables"))
		assert.Equal(t, "2025-01-23", q.Get("expiration_date_gte"))
		assert.Equal(t, "23.32", q.Get("strike_price_gte"))
		assert.Equal(t, "test-token", q.Get("page_token"))

		respond(w, http.StatusOK, `{
			"option_contracts": [
				{
					"id": "0c7826be-8606-4100-9e0a-94a1b6f5aaad",
					"symbol": "AA251114C00020000",
					"name": "AA Nov 14 2025 20 Call",
					"status": "active",
					"tradable": true,
					"expiration_date": "2025-11-14",
					"root_symbol": "AA",
					"underlying_symbol": "AA",
					"underlying_asset_id": "3ca0202f-01f4-41a0-bb0c-c8864e767ebd",
					"type": "call",
					"style": "american",
					"strike_price": "20",
					"multiplier": "100",
					"size": "100",
					"open_interest": null,
					"open_interest_date": null,
					"close_price": null,
					"close_price_date": null,
					"ppind": true
				},
				{
					"id": "f8df3699-b0a4-4666-9bd9-ebf129dcdab3",
					"symbol": "AA251114C00024000",
					"name": "AA Nov 14 2025 24 Call",
					"status": "active",
					"tradable": true,
					"expiration_date": "2025-11-14",
					"root_symbol": "AA",
					"underlying_symbol": "AA",
					"underlying_asset_id": "3ca0202f-01f4-41a0-bb0c-c8864e767ebd",
					"type": "call",
					"style": "american",
					"strike_price": "24",
					"multiplier": "100",
					"size": "100",
					"open_interest": null,
					"open_interest_date": null,
					"close_price": "13.65",
					"close_price_date": "2025-11-07",
					"ppind": true
				}
			],
			"next_page_token": "MTAw"
		}`)
	})

	page, err := client.ListOptionContracts(context.Background(), &ListOptionContractsParams{
		UnderlyingSymbols: CommaSeparated{"AAPL", "TSLA"},
		ShowDeliverables:  true,
		Status:            Ptr(OptionStatusActive),
		ExpirationDateGTE: Ptr(NewDate(2025, time.January, 23)),
		RootSymbol:        "AAPL",
		Type:              Ptr(OptionTypeCall),
		Style:             Ptr(OptionStyleAmerican),
		StrikePriceGTE:    Ptr(Money(23.32)),
		PageToken:         "test-token",
		Limit:             Ptr(100),
	})
	require.NoError(t, err)
	require.Len(t, page.OptionContracts, 2)
	require.NotNil(t, page.NextPageToken)
	assert.Equal(t, "MTAw", *page.NextPageToken)

	first := page.OptionContracts[0]
	assert.Nil(t, first.ClosePrice)
	assert.Nil(t, first.OpenInterest)
	assert.Equal(t, NewDate(2025, time.November, 14), first.ExpirationDate)

	second := page.OptionContracts[1]
	require.NotNil(t, second.ClosePrice)
	assert.Equal(t, Money(13.65), *second.ClosePrice)
	require.NotNil(t, second.ClosePriceDate)
	assert.Equal(t, "2025-11-07", second.ClosePriceDate.String())
}

func TestClient_ListOptionContracts_LastPage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("show_deliverables"))
		respond(w, http.StatusOK, `{"option_contracts":[],"next_page_token":null}`)
	})

	page, err := client.ListOptionContracts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, page.OptionContracts)
	assert.Nil(t, page.NextPageToken)
}

func TestClient_GetOptionContract(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/options/contracts/AA251114C00024000", r.URL.Path)
		respond(w, http.StatusOK, `{
			"id": "f8df3699-b0a4-4666-9bd9-ebf129dcdab3",
			"symbol": "AA251114C00024000",
			"name": "AA Nov 14 2025 24 Call",
			"status": "active",
			"tradable": true,
			"expiration_date": "2025-11-14",
			"root_symbol": "AA",
			"underlying_symbol": "AA",
			"underlying_asset_id": "3ca0202f-01f4-41a0-bb0c-c8864e767ebd",
			"type": "call",
			"style": "american",
			"strike_price": "24",
			"multiplier": "100",
			"size": "100",
			"open_interest": null,
			"open_interest_date": null,
			"close_price": "13.65",
			"close_price_date": "2025-11-07",
			"deliverables": [
				{
					"type": "equity",
					"symbol": "AA",
					"asset_id": "3ca0202f-01f4-41a0-bb0c-c8864e767ebd",
					"amount": "100",
					"allocation_percentage": "100",
					"settlement_type": "T+1",
					"settlement_method": "CCC",
					"delayed_settlement": false
				}
			],
			"ppind": true
		}`)
	})

	contract, err := client.GetOptionContract(context.Background(), "AA251114C00024000")
	require.NoError(t, err)
	assert.Equal(t, IntAsString(100), contract.Size)
	assert.Equal(t, Money(24), contract.StrikePrice)
	require.Len(t, contract.Deliverables, 1)
	assert.Equal(t, DeliverableTypeEquity, contract.Deliverables[0].Type)
	assert.Equal(t, SettlementMethodCCC, contract.Deliverables[0].SettlementMethod)
	assert.Equal(t, NumberAsString(100), contract.Deliverables[0].Amount)
}
