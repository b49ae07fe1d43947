// Package alpaca provides a typed Go client for the Alpaca trading API.
//
// A Client is safe for concurrent use. Every method performs exactly one
// HTTP round trip and returns *APIError, *TransportError or *DecodeError
// on failure.
package alpaca

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// PaperURL is the base URL of the paper trading environment.
	PaperURL = "https://paper-api.alpaca.markets"
	// LiveURL is the base URL of the live trading environment.
	LiveURL = "https://api.alpaca.markets"

	// HeaderKeyID carries the API key id on every request.
	HeaderKeyID = "APCA-API-KEY-ID"
	// HeaderSecretKey carries the API secret key on every request.
	HeaderSecretKey = "APCA-API-SECRET-KEY"

	apiVersion = "/v2"

	maxLoggedBody = 512
)

// Observer receives one callback per completed request. Status is 0 when
// no response was received.
type Observer interface {
	ObserveRequest(endpoint, method string, status int, elapsed time.Duration)
}

// Client handles HTTP requests to the trading API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	keyID     string
	secretKey string
	logger    *zap.Logger
	observer  Observer
}

// Option configures a Client at construction.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Use it to install a
// retrying transport or a different timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers a per-request observer, e.g. for metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient creates a client for baseURL authenticated with the given key pair.
func NewClient(baseURL, keyID, secretKey string, opts ...Option) *Client {
	c := &Client{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		keyID:     keyID,
		secretKey: secretKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes one API call.
type request struct {
	name   string // endpoint label for logs and metrics
	method string
	path   string // relative to /v2
	query  url.Values
	body   any
}

// call performs r and decodes the response into a new T.
func call[T any](ctx context.Context, c *Client, r request) (*T, error) {
	out := new(T)
	if err := c.send(ctx, r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// callList performs r and decodes a JSON array response.
func callList[T any](ctx context.Context, c *Client, r request) ([]T, error) {
	var out []T
	if err := c.send(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// send performs r and decodes a 2xx body into out. A nil out discards the body.
func (c *Client) send(ctx context.Context, r request, out any) error {
	start := time.Now()
	status, body, err := c.roundTrip(ctx, r)
	elapsed := time.Since(start)
	if c.observer != nil {
		c.observer.ObserveRequest(r.name, r.method, status, elapsed)
	}

	fields := []zap.Field{
		zap.String("endpoint", r.name),
		zap.String("method", r.method),
		zap.String("path", r.path),
	}

	if err != nil {
		c.logger.Warn("alpaca.http_failed", append(fields, zap.Error(err))...)
		return err
	}

	if status < 200 || status >= 300 {
		apiErr := newAPIError(status, body)
		c.logger.Warn("alpaca.http_error", append(fields,
			zap.Int("status", status),
			zap.Int("code", apiErr.Code),
			zap.String("message", apiErr.Message),
			zap.Duration("latency", elapsed))...)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			decErr := newDecodeError(out, body, err)
			c.logger.Warn("alpaca.decode_failed", append(fields,
				zap.Error(decErr),
				zap.ByteString("body", truncate(body, maxLoggedBody)))...)
			return decErr
		}
	}

	c.logger.Debug("alpaca.http_success", append(fields,
		zap.Int("status", status),
		zap.Duration("elapsed", elapsed))...)
	return nil
}

// roundTrip sends one request with the auth headers and reads the full body.
func (c *Client) roundTrip(ctx context.Context, r request) (int, []byte, error) {
	endpoint := c.BaseURL + apiVersion + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(HeaderKeyID, c.keyID)
	req.Header.Set(HeaderSecretKey, c.secretKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Method: r.method, URL: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Method: r.method, URL: endpoint, Err: err}
	}
	return resp.StatusCode, payload, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

// pathID escapes a symbol or identifier for use as one path segment.
func pathID(id string) string {
	return url.PathEscape(id)
}

// Ptr returns a pointer to v, for filling optional request fields.
func Ptr[T any](v T) *T {
	return &v
}
