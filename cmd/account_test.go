package cmd

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const accountJSON = `{
	"id": "fff0e281-2a5a-4b97-8dcc-790a439a49b2",
	"account_number": "PA39J45DA4AZ",
	"status": "ACTIVE",
	"crypto_status": "ACTIVE",
	"currency": "USD",
	"options_trading_level": 3,
	"buying_power": "200000",
	"options_buying_power": "100000",
	"cash": "100000",
	"portfolio_value": "101250.5",
	"pattern_day_trader": false,
	"trading_blocked": false,
	"transfers_blocked": true,
	"account_blocked": false,
	"created_at": "2024-10-31T15:46:03.666425Z",
	"multiplier": "2",
	"equity": "101250.5",
	"last_equity": "100000",
	"long_market_value": "1250.5",
	"short_market_value": "0",
	"daytrade_count": 1
}`

func TestAccountCmd_Success(t *testing.T) {
	opts := newTestOptions(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/account", r.URL.Path)
		assertAuth(t, r)
		writeJSON(w, http.StatusOK, accountJSON)
	}, false)

	out, err := execute(newAccountCmd(opts))
	require.NoError(t, err)

	assert.Contains(t, out, "PA39J45DA4AZ")
	assert.Contains(t, out, "ACTIVE")
	assert.Contains(t, out, "$101,250.50")
	assert.Contains(t, out, "+$1,250.50")
	assert.Contains(t, out, "$200,000.00")
	assert.Contains(t, out, "2x")
	assert.Contains(t, out, "transfers")
}

func TestAccountCmd_JSON(t *testing.T) {
	opts := newTestOptions(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, accountJSON)
	}, true)

	out, err := execute(newAccountCmd(opts))
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "PA39J45DA4AZ", result["account_number"])
	assert.Equal(t, "200000", result["buying_power"])
}

func TestAccountCmd_APIError(t *testing.T) {
	opts := newTestOptions(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"code": 40310000, "message": "request is not authorized"}`)
	}, false)

	_, err := execute(newAccountCmd(opts))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch account")
	assert.Contains(t, err.Error(), "request is not authorized")
}

func TestAccountCmd_RejectsArgs(t *testing.T) {
	_, err := execute(newAccountCmd(newTestOptions(t, unreachable(t), false)), "extra")
	assert.Error(t, err)
}
