package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	Symbol string `json:"symbol"`
	Qty    string `json:"qty"`
}

func TestFormatter_Table_Text(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, false).Table([]string{"Symbol", "Qty"}, [][]string{
		{"AAPL", "10"},
		{"META", "2.5"},
	})
	require.NoError(t, err)

	expected := "Symbol  Qty\n" +
		"------  ---\n" +
		"AAPL    10\n" +
		"META    2.5\n"
	assert.Equal(t, expected, buf.String())
}

func TestFormatter_Table_EmptyRowsKeepHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Table([]string{"Time", "Equity"}, nil))
	assert.Equal(t, "Time  Equity\n----  ------\n", buf.String())
}

func TestFormatter_Table_JSONKeysAreSnakeCase(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, true).Table([]string{"Symbol", "Open Interest", "P/L %"}, [][]string{
		{"AAPL250620C00200000", "1,204", "1.25%"},
		{"AAPL250620P00200000"},
	})
	require.NoError(t, err)

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]string{
		{"symbol": "AAPL250620C00200000", "open_interest": "1,204", "p_l": "1.25%"},
		{"symbol": "AAPL250620P00200000", "open_interest": "", "p_l": ""},
	}, got)
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Symbol", "symbol"},
		{"Avg Entry", "avg_entry"},
		{"Day G/L", "day_g_l"},
		{"Order ID", "order_id"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, snakeCase(tt.in))
		})
	}
}

func TestFormatter_List(t *testing.T) {
	headers := []string{"Symbol", "Qty"}

	tests := []struct {
		name     string
		jsonMode bool
		empty    string
		rows     [][]string
		data     []position
		want     string
		contains []string
	}{
		{
			name:     "text renders table",
			rows:     [][]string{{"AAPL", "10"}},
			data:     []position{{"AAPL", "10"}},
			contains: []string{"Symbol", "------", "AAPL"},
		},
		{
			name:     "json renders models",
			jsonMode: true,
			rows:     [][]string{{"AAPL", "10"}},
			data:     []position{{"AAPL", "10"}},
			contains: []string{`"symbol": "AAPL"`, `"qty": "10"`},
		},
		{
			name:  "text empty message",
			empty: "No positions",
			data:  []position{},
			want:  "No positions\n",
		},
		{
			name: "text empty without message keeps headers",
			data: []position{},
			want: "Symbol  Qty\n------  ---\n",
		},
		{
			name:     "json empty is an array",
			jsonMode: true,
			empty:    "No positions",
			data:     []position{},
			want:     "[]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, New(&buf, tt.jsonMode).List(tt.empty, headers, tt.rows, tt.data))
			if tt.want != "" {
				assert.Equal(t, tt.want, buf.String())
			}
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestFormatter_Result(t *testing.T) {
	var text bytes.Buffer
	require.NoError(t, New(&text, false).Result("Order canceled", map[string]string{"id": "x"}))
	assert.Equal(t, "Order canceled\n", text.String())

	var js bytes.Buffer
	require.NoError(t, New(&js, true).Result("Order canceled", map[string]string{"id": "x"}))
	assert.JSONEq(t, `{"id":"x"}`, js.String())
}

func TestFormatter_Print(t *testing.T) {
	var buf bytes.Buffer
	f := New(&buf, true)

	require.NoError(t, f.Print(map[string]string{"key": "value"}))
	assert.Equal(t, "{\n  \"key\": \"value\"\n}\n", buf.String())

	buf.Reset()
	f.JSONMode = false
	require.NoError(t, f.Print("plain"))
	assert.Equal(t, "plain\n", buf.String())
}
