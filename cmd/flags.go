package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jonandersen/apca/pkg/alpaca"
)

func newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// parsePositive parses a strictly positive decimal flag value.
func parsePositive(flag, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: must be a number", flag, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: must be greater than zero", flag, s)
	}
	return d, nil
}

// moneyFlag converts an optional price flag. Empty yields nil.
func moneyFlag(flag, s string) (*alpaca.Money, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parsePositive(flag, s)
	if err != nil {
		return nil, err
	}
	return alpaca.Ptr(alpaca.Money(d.InexactFloat64())), nil
}

// quantityFlag converts an optional quantity flag. Empty yields nil.
func quantityFlag(flag, s string) (*alpaca.NumberAsString, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parsePositive(flag, s)
	if err != nil {
		return nil, err
	}
	return alpaca.Ptr(alpaca.NumberAsString(d.InexactFloat64())), nil
}

// dateFlag parses an optional YYYY-MM-DD flag. Empty yields the zero Date.
func dateFlag(flag, s string) (alpaca.Date, error) {
	if s == "" {
		return alpaca.Date{}, nil
	}
	d, err := alpaca.ParseDate(s)
	if err != nil {
		return alpaca.Date{}, fmt.Errorf("invalid --%s %q: use YYYY-MM-DD", flag, s)
	}
	return d, nil
}

// enumFlag matches s case-insensitively against variants.
func enumFlag[T ~string](flag, s string, variants ...T) (T, error) {
	for _, v := range variants {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = string(v)
	}
	return "", fmt.Errorf("invalid --%s %q (use %s)", flag, s, strings.Join(names, ", "))
}

// requireConfirm fails unless the user passed --yes.
func requireConfirm(skip bool, action string) error {
	if skip {
		return nil
	}
	return fmt.Errorf("%s requires confirmation (use --yes to confirm)", action)
}

func upper(symbols []string) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	return out
}

var hundredPercent = decimal.NewFromInt(100)
