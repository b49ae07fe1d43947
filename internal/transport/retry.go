// Package transport provides the HTTP round tripper used under the trading
// client. It retries idempotent requests that fail in transit or with a 5xx.
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Backoff returns the wait before retry attempt n (1-based).
func Backoff(attempt int) time.Duration {
	switch attempt {
	case 1:
		return 100 * time.Millisecond
	case 2:
		return 250 * time.Millisecond
	default:
		return 500 * time.Millisecond
	}
}

// Retrying wraps Base and retries GET, HEAD, OPTIONS, PUT and DELETE.
// POST and PATCH are never retried since replaying them may place a
// second order.
type Retrying struct {
	Base     http.RoundTripper
	RetryMax int
	Logger   *zap.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrying returns a Retrying over base (http.DefaultTransport when nil).
func NewRetrying(base http.RoundTripper, retryMax int, logger *zap.Logger) *Retrying {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{Base: base, RetryMax: retryMax, Logger: logger, sleep: sleepCtx}
}

// RoundTrip implements http.RoundTripper.
func (t *Retrying) RoundTrip(req *http.Request) (*http.Response, error) {
	if !idempotent(req.Method) || t.RetryMax <= 0 {
		return t.Base.RoundTrip(req)
	}

	sleep := t.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		send := req
		if attempt > 0 {
			if err := sleep(req.Context(), Backoff(attempt)); err != nil {
				return nil, err
			}
			var err error
			if send, err = retryRequest(req); err != nil {
				return nil, err
			}
		}

		resp, err := t.Base.RoundTrip(send)
		if err != nil {
			lastErr = err
			if req.Context().Err() != nil || attempt >= t.RetryMax {
				return nil, lastErr
			}
			t.Logger.Warn("transport.retry",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}

		if resp.StatusCode < 500 || attempt >= t.RetryMax {
			return resp, nil
		}

		t.Logger.Warn("transport.retry",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("attempt", attempt+1),
			zap.Int("status", resp.StatusCode),
		)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}

// retryRequest copies req for another attempt. The caller's request is
// never modified; a body is replayed through GetBody.
func retryRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, fmt.Errorf("cannot replay %s %s: request body is not rewindable", req.Method, req.URL.Path)
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rewind request body: %w", err)
	}
	clone.Body = body
	return clone, nil
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
