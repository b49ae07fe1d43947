package alpaca

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var jsonNull = []byte("null")

// Money is a currency amount. The API sends it either as a quoted decimal
// string or as a bare JSON number; it is always encoded as a string.
type Money float64

// MarshalJSON encodes the amount as a JSON string in its shortest form.
func (m Money) MarshalJSON() ([]byte, error) {
	return quoteFloat(float64(m)), nil
}

// UnmarshalJSON accepts a JSON string or any JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeFloat(data, "Money")
	if err != nil || !ok {
		return err
	}
	*m = Money(v)
	return nil
}

// String returns the canonical wire form, e.g. "20.43" or "43".
func (m Money) String() string {
	return formatFloat(float64(m))
}

// Float64 returns the amount as a float64.
func (m Money) Float64() float64 {
	return float64(m)
}

// Decimal returns the amount as a decimal, rounded to the shortest
// representation that parses back to the same float.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(float64(m))
}

// NumberAsString is a fractional quantity (shares, contracts, percentages)
// with the same wire contract as Money.
type NumberAsString float64

// MarshalJSON encodes the quantity as a JSON string in its shortest form.
func (n NumberAsString) MarshalJSON() ([]byte, error) {
	return quoteFloat(float64(n)), nil
}

// UnmarshalJSON accepts a JSON string or any JSON number.
func (n *NumberAsString) UnmarshalJSON(data []byte) error {
	v, ok, err := decodeFloat(data, "NumberAsString")
	if err != nil || !ok {
		return err
	}
	*n = NumberAsString(v)
	return nil
}

// String returns the canonical wire form.
func (n NumberAsString) String() string {
	return formatFloat(float64(n))
}

// Float64 returns the quantity as a float64.
func (n NumberAsString) Float64() float64 {
	return float64(n)
}

// Decimal returns the quantity as a decimal.
func (n NumberAsString) Decimal() decimal.Decimal {
	return decimal.NewFromFloat(float64(n))
}

// maxInt64Float is 2^63. float64(math.MaxInt64) rounds up to it, so any
// float at or above it is out of range.
const maxInt64Float = float64(1 << 63)

// IntAsString is a whole number that the API sends as "100" or 100.
// It is always encoded as a string.
type IntAsString int64

// MarshalJSON encodes the value as a JSON string.
func (i IntAsString) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatInt(int64(i), 10) + `"`), nil
}

// UnmarshalJSON accepts a JSON string or a JSON number with no fractional part.
func (i *IntAsString) UnmarshalJSON(data []byte) error {
	raw, ok, err := numericText(data, "IntAsString")
	if err != nil || !ok {
		return err
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*i = IntAsString(v)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || f >= maxInt64Float || f < math.MinInt64 {
		return &NumberFormatError{Type: "IntAsString", Value: raw}
	}
	*i = IntAsString(f)
	return nil
}

// String returns the decimal form of the value.
func (i IntAsString) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// Int returns the value as an int.
func (i IntAsString) Int() int {
	return int(i)
}

// CommaSeparated is an ordered list of tokens sent as one comma-joined
// string. It only ever appears in requests.
type CommaSeparated []string

// String joins the tokens with commas.
func (c CommaSeparated) String() string {
	return strings.Join(c, ",")
}

// MarshalJSON encodes the list as a single JSON string.
func (c CommaSeparated) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

const dateLayout = "2006-01-02"

// Date is a calendar date without a time zone, encoded as YYYY-MM-DD.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String returns the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quoteFloat(v float64) []byte {
	return []byte(`"` + formatFloat(v) + `"`)
}

// numericText extracts the number text from a JSON string or number token.
// ok is false for JSON null, which leaves the destination untouched.
func numericText(data []byte, typ string) (raw string, ok bool, err error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return "", false, nil
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false, &NumberFormatError{Type: typ, Value: string(data)}
		}
		return strings.TrimSpace(s), true, nil
	case c == '-' || (c >= '0' && c <= '9'):
		return string(data), true, nil
	default:
		return "", false, &NumberFormatError{Type: typ, Value: string(data)}
	}
}

func decodeFloat(data []byte, typ string) (float64, bool, error) {
	raw, ok, err := numericText(data, typ)
	if err != nil || !ok {
		return 0, ok, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, &NumberFormatError{Type: typ, Value: raw}
	}
	return v, true, nil
}
