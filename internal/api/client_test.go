package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonandersen/apca/internal/auth"
	"github.com/jonandersen/apca/internal/config"
	"github.com/jonandersen/apca/internal/keyring"
	"github.com/jonandersen/apca/internal/metrics"
	"github.com/jonandersen/apca/pkg/alpaca"
)

const clockJSON = `{"timestamp":"2025-01-21T10:00:00-05:00","is_open":true,"next_open":"2025-01-22T09:30:00-05:00","next_close":"2025-01-21T16:00:00-05:00"}`

func TestNew_RetriesAndObserves(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PKTEST", r.Header.Get(alpaca.HeaderKeyID))
		assert.Equal(t, "secret", r.Header.Get(alpaca.HeaderSecretKey))
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(clockJSON))
	}))
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.APIBaseURL = server.URL
	cfg.RetryMax = 1
	rec := metrics.NewRecorder()

	client := New(cfg, auth.Credentials{KeyID: "PKTEST", SecretKey: "secret"}, nil, rec)
	clock, err := client.GetClock(context.Background())

	require.NoError(t, err)
	assert.True(t, clock.IsOpen)
	assert.Equal(t, int32(2), calls.Load())

	stats, err := rec.Stats()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "clock.get", stats[0].Endpoint)
	assert.Equal(t, uint64(1), stats[0].Requests)
}

func TestNewHTTPClient(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TimeoutSeconds = 5
	cfg.RetryMax = 3

	hc := NewHTTPClient(cfg, nil, zap.NewNop())

	assert.Equal(t, 5*time.Second, hc.Timeout)
	require.NotNil(t, hc.Transport)
}

func TestNewFromStore(t *testing.T) {
	cfg := config.DefaultConfig()

	t.Run("configured", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		client, err := NewFromStore(cfg, keyring.NewMockCredentials("PKTEST1234", "secret"), zap.New(core), nil)

		require.NoError(t, err)
		assert.Equal(t, alpaca.PaperURL, client.BaseURL)

		entries := logs.FilterMessage("api.client_ready").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "******1234", entries[0].ContextMap()["key_id"])
		for _, e := range logs.All() {
			for _, v := range e.ContextMap() {
				assert.NotEqual(t, "secret", v)
			}
		}
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := NewFromStore(cfg, keyring.NewMockStore(), nil, nil)
		assert.ErrorIs(t, err, auth.ErrNotConfigured)
	})
}
