package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveRequest(t *testing.T) {
	r := NewRecorder()

	r.ObserveRequest("orders.create", "POST", 200, 40*time.Millisecond)
	r.ObserveRequest("orders.create", "POST", 422, 20*time.Millisecond)
	r.ObserveRequest("account.get", "GET", 0, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("orders.create", "POST", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("orders.create", "POST", "422")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("account.get", "GET", "error")))
	assert.Equal(t, 3, testutil.CollectAndCount(r.requests))

	expected := `
# HELP apca_api_requests_total Total number of trading API requests made (by endpoint, method and status).
# TYPE apca_api_requests_total counter
apca_api_requests_total{endpoint="account.get",method="GET",status="error"} 1
apca_api_requests_total{endpoint="orders.create",method="POST",status="200"} 1
apca_api_requests_total{endpoint="orders.create",method="POST",status="422"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), requestsTotalName))
}

func TestRecorder_Stats(t *testing.T) {
	r := NewRecorder()
	r.ObserveRequest("orders.create", "POST", 200, 40*time.Millisecond)
	r.ObserveRequest("orders.create", "POST", 500, 20*time.Millisecond)
	r.ObserveRequest("account.get", "GET", 200, 10*time.Millisecond)

	stats, err := r.Stats()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "account.get", stats[0].Endpoint)
	assert.Equal(t, uint64(1), stats[0].Requests)
	assert.Equal(t, uint64(0), stats[0].Errors)

	assert.Equal(t, "orders.create", stats[1].Endpoint)
	assert.Equal(t, "POST", stats[1].Method)
	assert.Equal(t, uint64(2), stats[1].Requests)
	assert.Equal(t, uint64(1), stats[1].Errors)
	assert.InDelta(t, float64(30*time.Millisecond), float64(stats[1].Mean()), float64(time.Millisecond))
}

func TestRecorder_WriteSummary(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewRecorder().WriteSummary(&buf))
		assert.Equal(t, "No API requests recorded.\n", buf.String())
	})

	t.Run("table", func(t *testing.T) {
		r := NewRecorder()
		r.ObserveRequest("clock.get", "GET", 200, 12*time.Millisecond)

		var buf bytes.Buffer
		require.NoError(t, r.WriteSummary(&buf))
		out := buf.String()
		assert.Contains(t, out, "ENDPOINT")
		assert.Contains(t, out, "clock.get")
		assert.Contains(t, out, "12ms")
	})
}

func TestEndpointStats_MeanZero(t *testing.T) {
	assert.Equal(t, time.Duration(0), EndpointStats{}.Mean())
}
