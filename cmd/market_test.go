package cmd

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockCmd_Open(t *testing.T) {
	opts := newTestOptions(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/clock", r.URL.Path)
		writeJSON(w, http.StatusOK, `{
			"timestamp": "2025-01-15T10:30:00-05:00",
			"is_open": true,
			"next_open": "2025-01-16T09:30:00-05:00",
			"next_close": "2025-01-15T16:00:00-05:00"
		}`)
	}, false)

	out, err := execute(newClockCmd(opts))
	require.NoError(t, err)

	assert.Contains(t, out, "Market:")
	assert.Contains(t, out, "open")
	assert.Contains(t, out, "2025-01-15T16:00:00-05:00")
}

func TestClockCmd_JSON(t *testing.T) {
	opts := newTestOptions(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"timestamp": "2025-01-15T20:30:00-05:00", "is_open": false,
			"next_open": "2025-01-16T09:30:00-05:00", "next_close": "2025-01-16T16:00:00-05:00"}`)
	}, true)

	out, err := execute(newClockCmd(opts))
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, false, result["is_open"])
}

func TestCalendarCmd_Success(t *testing.T) {
	opts := newTestOptions(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/calendar", r.URL.Path)
		assert.Equal(t, "2025-01-01", r.URL.Query().Get("start"))
		assert.Equal(t, "2025-01-03", r.URL.Query().Get("end"))
		assert.Equal(t, "SETTLEMENT", r.URL.Query().Get("date_type"))
		writeJSON(w, http.StatusOK, `[
			{"date": "2025-01-02", "open": "09:30", "close": "16:00", "session_open": "0400", "session_close": "2000"},
			{"date": "2025-01-03", "open": "09:30", "close": "16:00", "session_open": "0400", "session_close": "2000"}
		]`)
	}, false)

	out, err := execute(newCalendarCmd(opts), "--start", "2025-01-01", "--end", "2025-01-03", "--settlement")
	require.NoError(t, err)

	assert.Contains(t, out, "2025-01-02")
	assert.Contains(t, out, "2025-01-03")
	assert.Contains(t, out, "09:30")
}

func TestCalendarCmd_InvalidDate(t *testing.T) {
	_, err := execute(newCalendarCmd(newTestOptions(t, unreachable(t), false)), "--start", "01/02/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --start")
}
