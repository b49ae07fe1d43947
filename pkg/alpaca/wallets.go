package alpaca

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Wallet is a deposit address for crypto funding.
type Wallet struct {
	Chain     string    `json:"chain"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// CryptoTransfer is a deposit to or withdrawal from the account.
type CryptoTransfer struct {
	ID          uuid.UUID         `json:"id"`
	TxHash      string            `json:"tx_hash"`
	Direction   TransferDirection `json:"direction"`
	Status      TransferStatus    `json:"status"`
	Amount      NumberAsString    `json:"amount"`
	USDValue    Money             `json:"usd_value"`
	NetworkFee  Money             `json:"network_fee"`
	Fees        Money             `json:"fees"`
	Chain       string            `json:"chain"`
	Asset       string            `json:"asset"`
	FromAddress string            `json:"from_address"`
	ToAddress   string            `json:"to_address"`
	CreatedAt   time.Time         `json:"created_at"`
}

// WhitelistedAddress is a withdrawal destination approved for the account.
type WhitelistedAddress struct {
	ID        uuid.UUID       `json:"id"`
	Chain     string          `json:"chain"`
	Asset     string          `json:"asset"`
	Address   string          `json:"address"`
	Status    WhitelistStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// GasFee is an estimated network fee.
type GasFee struct {
	Fee Money `json:"fee"`
}

// WithdrawalRequest moves funds to a whitelisted address.
type WithdrawalRequest struct {
	Amount  NumberAsString `json:"amount"`
	Address string         `json:"address"`
	Asset   string         `json:"asset"`
}

// WhitelistRequest adds a withdrawal destination.
type WhitelistRequest struct {
	Address string `json:"address"`
	Asset   string `json:"asset"`
}

// WalletParams filters ListWallets.
type WalletParams struct {
	Asset   string
	Network *CryptoNetwork
}

// Values renders the parameters as a query string.
func (p *WalletParams) Values() url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	setString(q, "asset", p.Asset)
	setOptional(q, "network", p.Network, enumString)
	return q
}

// GasFeeParams describes a transfer to estimate.
type GasFeeParams struct {
	Asset       string
	FromAddress string
	ToAddress   string
	Amount      *NumberAsString
}

// Values renders the parameters as a query string.
func (p *GasFeeParams) Values() url.Values {
	q := url.Values{}
	setString(q, "asset", p.Asset)
	setString(q, "from_address", p.FromAddress)
	setString(q, "to_address", p.ToAddress)
	setOptional(q, "amount", p.Amount, NumberAsString.String)
	return q
}

// ListWallets returns the funding wallets of the account.
func (c *Client) ListWallets(ctx context.Context, params *WalletParams) ([]Wallet, error) {
	return callList[Wallet](ctx, c, request{
		name:   "wallets.list",
		method: http.MethodGet,
		path:   "/wallets",
		query:  params.Values(),
	})
}

// ListCryptoTransfers returns deposits and withdrawals.
func (c *Client) ListCryptoTransfers(ctx context.Context) ([]CryptoTransfer, error) {
	return callList[CryptoTransfer](ctx, c, request{
		name:   "wallets.transfers",
		method: http.MethodGet,
		path:   "/wallets/transfers",
	})
}

// GetCryptoTransfer returns one transfer by id.
func (c *Client) GetCryptoTransfer(ctx context.Context, id string) (*CryptoTransfer, error) {
	if id == "" {
		return nil, fmt.Errorf("transfer id is required")
	}
	return call[CryptoTransfer](ctx, c, request{
		name:   "wallets.transfer_get",
		method: http.MethodGet,
		path:   "/wallets/transfers/" + pathID(id),
	})
}

// RequestWithdrawal starts a withdrawal to a whitelisted address.
func (c *Client) RequestWithdrawal(ctx context.Context, req WithdrawalRequest) (*CryptoTransfer, error) {
	if req.Address == "" || req.Asset == "" {
		return nil, fmt.Errorf("address and asset are required")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	return call[CryptoTransfer](ctx, c, request{
		name:   "wallets.withdraw",
		method: http.MethodPost,
		path:   "/wallets/transfers",
		body:   req,
	})
}

// ListWhitelistedAddresses returns approved and pending withdrawal destinations.
func (c *Client) ListWhitelistedAddresses(ctx context.Context) ([]WhitelistedAddress, error) {
	return callList[WhitelistedAddress](ctx, c, request{
		name:   "wallets.whitelists",
		method: http.MethodGet,
		path:   "/wallets/whitelists",
	})
}

// CreateWhitelistedAddress requests approval of a withdrawal destination.
func (c *Client) CreateWhitelistedAddress(ctx context.Context, req WhitelistRequest) (*WhitelistedAddress, error) {
	if req.Address == "" || req.Asset == "" {
		return nil, fmt.Errorf("address and asset are required")
	}
	return call[WhitelistedAddress](ctx, c, request{
		name:   "wallets.whitelist_create",
		method: http.MethodPost,
		path:   "/wallets/whitelists",
		body:   req,
	})
}

// DeleteWhitelistedAddress removes a withdrawal destination.
func (c *Client) DeleteWhitelistedAddress(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("whitelist id is required")
	}
	return c.send(ctx, request{
		name:   "wallets.whitelist_delete",
		method: http.MethodDelete,
		path:   "/wallets/whitelists/" + pathID(id),
	}, nil)
}

// EstimateGasFee estimates the network fee of a transfer.
func (c *Client) EstimateGasFee(ctx context.Context, params *GasFeeParams) (*GasFee, error) {
	if params == nil || params.Asset == "" {
		return nil, fmt.Errorf("asset is required")
	}
	return call[GasFee](ctx, c, request{
		name:   "wallets.fee_estimate",
		method: http.MethodGet,
		path:   "/wallets/fees/estimate",
		query:  params.Values(),
	})
}
