package output

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Field is one labelled value of a detail view.
type Field struct {
	Label string
	Value string
}

// Detail prints a single record. Text mode renders aligned "Label: value"
// lines; JSON mode encodes data instead, so callers pass the typed model.
func (f *Formatter) Detail(fields []Field, data any) error {
	if f.JSONMode {
		return f.Print(data)
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	for _, fl := range fields {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", fl.Label, fl.Value); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Money formats v as dollars with two decimals and thousand separators.
func Money(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-$" + group(v.Neg().StringFixed(2))
	}
	return "$" + group(v.StringFixed(2))
}

// GainLoss formats v with an explicit sign. Zero has no sign.
func GainLoss(v decimal.Decimal) string {
	switch v.Sign() {
	case 0:
		return "$0.00"
	case 1:
		return "+" + Money(v)
	default:
		return Money(v)
	}
}

// Quantity formats a share or contract count without trailing zeros.
func Quantity(v decimal.Decimal) string {
	return v.String()
}

// Percent formats a ratio (0.0125) as a percentage ("1.25%").
func Percent(ratio decimal.Decimal) string {
	return ratio.Mul(hundred).StringFixed(2) + "%"
}

// Time formats t in UTC, or "-" when nil.
func Time(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

// Count formats n with thousand separators. Returns "-" for zero.
func Count(n int64) string {
	if n == 0 {
		return "-"
	}
	if n < 0 {
		return "-" + group(strconv.FormatInt(-n, 10))
	}
	return group(strconv.FormatInt(n, 10))
}

// Optional returns "-" for an empty string.
func Optional(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// group inserts thousand separators into the integer part of a plain
// unsigned decimal string.
func group(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(intPart[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
