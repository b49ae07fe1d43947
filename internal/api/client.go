// Package api assembles a trading client from CLI configuration.
package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jonandersen/apca/internal/auth"
	"github.com/jonandersen/apca/internal/config"
	"github.com/jonandersen/apca/internal/keyring"
	"github.com/jonandersen/apca/internal/transport"
	"github.com/jonandersen/apca/pkg/alpaca"
)

// NewHTTPClient returns an http.Client with the configured timeout and a
// retrying transport over base.
func NewHTTPClient(cfg *config.Config, base http.RoundTripper, logger *zap.Logger) *http.Client {
	return &http.Client{
		Timeout:   cfg.Timeout(),
		Transport: transport.NewRetrying(base, cfg.RetryMax, logger),
	}
}

// New creates a client for cfg.APIBaseURL authenticated with creds.
// observer may be nil.
func New(cfg *config.Config, creds auth.Credentials, logger *zap.Logger, observer alpaca.Observer) *alpaca.Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []alpaca.Option{
		alpaca.WithHTTPClient(NewHTTPClient(cfg, nil, logger)),
		alpaca.WithLogger(logger),
	}
	if observer != nil {
		opts = append(opts, alpaca.WithObserver(observer))
	}
	return alpaca.NewClient(cfg.APIBaseURL, creds.KeyID, creds.SecretKey, opts...)
}

// NewFromStore loads the key pair from store and creates a client.
func NewFromStore(cfg *config.Config, store keyring.Store, logger *zap.Logger, observer alpaca.Observer) (*alpaca.Client, error) {
	creds, err := auth.LoadCredentials(store)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("api.client_ready",
		zap.String("base_url", cfg.APIBaseURL),
		zap.String("key_id", creds.Redacted()),
		zap.Bool("paper", cfg.IsPaper()),
	)
	return New(cfg, creds, logger, observer), nil
}
