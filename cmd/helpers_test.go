package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/jonandersen/apca/pkg/alpaca"
)

// newTestOptions starts a server running handler and returns options whose
// client talks to it.
func newTestOptions(t *testing.T, handler http.HandlerFunc, jsonMode bool) *apiOptions {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &apiOptions{
		client:   alpaca.NewClient(server.URL, "test_key", "test_secret"),
		jsonMode: jsonMode,
	}
}

// unreachable fails the test if a request is made.
func unreachable(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusTeapot)
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// execute runs cmd with args and returns everything written to stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func assertAuth(t *testing.T, r *http.Request) {
	t.Helper()
	assert.Equal(t, "test_key", r.Header.Get(alpaca.HeaderKeyID))
	assert.Equal(t, "test_secret", r.Header.Get(alpaca.HeaderSecretKey))
}

const orderJSON = `{
	"id": "61e69015-8549-4bfd-b9c3-01e75843f47d",
	"client_order_id": "eb9e2aaa-f71a-4f51-b5b4-52a6c565dad4",
	"created_at": "2025-01-15T14:30:00Z",
	"submitted_at": "2025-01-15T14:30:00Z",
	"asset_id": "b0b6dd9d-8b9b-48a9-ba46-b9d54906e415",
	"symbol": "AAPL",
	"asset_class": "us_equity",
	"qty": "10",
	"filled_qty": "0",
	"order_class": "",
	"order_type": "market",
	"type": "market",
	"side": "buy",
	"time_in_force": "day",
	"status": "accepted",
	"extended_hours": false
}`

const assetJSON = `{
	"id": "b0b6dd9d-8b9b-48a9-ba46-b9d54906e415",
	"class": "us_equity",
	"exchange": "NASDAQ",
	"symbol": "AAPL",
	"name": "Apple Inc. Common Stock",
	"status": "active",
	"tradable": true,
	"marginable": true,
	"maintenance_margin_requirement": 30,
	"shortable": true,
	"easy_to_borrow": true,
	"fractionable": true,
	"attributes": ["fractional_eh_enabled", "has_options"]
}`
