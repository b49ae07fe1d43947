package alpaca

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// CalendarDay is one trading day. Open and Close are "HH:MM" and the
// session bounds "HHMM", all in US Eastern time.
type CalendarDay struct {
	Date           Date   `json:"date"`
	Open           string `json:"open"`
	Close          string `json:"close"`
	SessionOpen    string `json:"session_open"`
	SessionClose   string `json:"session_close"`
	SettlementDate *Date  `json:"settlement_date,omitempty"`
}

// CalendarParams bounds GetCalendar. Zero dates are omitted.
type CalendarParams struct {
	Start    Date
	End      Date
	DateType *CalendarDateType
}

// Values renders the parameters as a query string.
func (p *CalendarParams) Values() url.Values {
	q := url.Values{}
	if p == nil {
		return q
	}
	if !p.Start.IsZero() {
		q.Set("start", p.Start.String())
	}
	if !p.End.IsZero() {
		q.Set("end", p.End.String())
	}
	setOptional(q, "date_type", p.DateType, enumString)
	return q
}

// Clock is the current market status.
type Clock struct {
	Timestamp time.Time `json:"timestamp"`
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
}

// GetCalendar returns market days in a date range.
func (c *Client) GetCalendar(ctx context.Context, params *CalendarParams) ([]CalendarDay, error) {
	return callList[CalendarDay](ctx, c, request{
		name:   "calendar.get",
		method: http.MethodGet,
		path:   "/calendar",
		query:  params.Values(),
	})
}

// GetClock returns whether the market is open and the next session bounds.
func (c *Client) GetClock(ctx context.Context) (*Clock, error) {
	return call[Clock](ctx, c, request{
		name:   "clock.get",
		method: http.MethodGet,
		path:   "/clock",
	})
}
