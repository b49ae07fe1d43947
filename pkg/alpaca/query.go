package alpaca

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HistoryPeriod is the span of a portfolio history query, rendered as
// {n}D, {n}W, {n}M or {n}A.
type HistoryPeriod struct {
	n    int
	unit string
}

// PeriodDays returns a period of n days.
func PeriodDays(n int) HistoryPeriod { return HistoryPeriod{n: n, unit: "D"} }

// PeriodWeeks returns a period of n weeks.
func PeriodWeeks(n int) HistoryPeriod { return HistoryPeriod{n: n, unit: "W"} }

// PeriodMonths returns a period of n months.
func PeriodMonths(n int) HistoryPeriod { return HistoryPeriod{n: n, unit: "M"} }

// PeriodYears returns a period of n years.
func PeriodYears(n int) HistoryPeriod { return HistoryPeriod{n: n, unit: "A"} }

func (p HistoryPeriod) String() string {
	return strconv.Itoa(p.n) + p.unit
}

// TimeFrame is the bar resolution of a portfolio history query, rendered
// as {n}Min, {n}H or {n}D.
type TimeFrame struct {
	n    int
	unit string
}

// TimeFrameMinutes returns a resolution of n minutes.
func TimeFrameMinutes(n int) TimeFrame { return TimeFrame{n: n, unit: "Min"} }

// TimeFrameHours returns a resolution of n hours.
func TimeFrameHours(n int) TimeFrame { return TimeFrame{n: n, unit: "H"} }

// TimeFrameDays returns a resolution of n days.
func TimeFrameDays(n int) TimeFrame { return TimeFrame{n: n, unit: "D"} }

func (t TimeFrame) String() string {
	return strconv.Itoa(t.n) + t.unit
}

// CashflowTypes selects which activities portfolio history reports as cashflow.
type CashflowTypes string

const (
	CashflowAll  CashflowTypes = "ALL"
	CashflowNone CashflowTypes = "NONE"
)

// CashflowActivities selects specific activity types, e.g. "DIV", "FEE".
func CashflowActivities(types ...string) CashflowTypes {
	return CashflowTypes(strings.Join(types, ","))
}

// formatTimestamp renders t as RFC3339 in UTC, e.g. 2025-01-21T05:32:12Z.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func enumString[T ~string](v T) string { return string(v) }

func formatBool(v bool) string { return strconv.FormatBool(v) }

func formatDate(d Date) string { return d.String() }

func formatMoney(m Money) string { return m.String() }

// setOptional adds key when v is present.
func setOptional[T any](q url.Values, key string, v *T, format func(T) string) {
	if v != nil {
		q.Set(key, format(*v))
	}
}

// setList adds key as a comma-joined list when it has any tokens.
func setList(q url.Values, key string, v CommaSeparated) {
	if len(v) > 0 {
		q.Set(key, v.String())
	}
}

// setString adds key when v is non-empty.
func setString(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}
