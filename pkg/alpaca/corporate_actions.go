package alpaca

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// CorporateAction is a corporate action announcement.
type CorporateAction struct {
	ID                      uuid.UUID           `json:"id"`
	CorporateActionID       string              `json:"corporate_action_id"`
	CAType                  CorporateActionType `json:"ca_type"`
	CASubType               string              `json:"ca_sub_type"`
	InitiatingSymbol        string              `json:"initiating_symbol"`
	InitiatingOriginalCusip string              `json:"initiating_original_cusip"`
	TargetSymbol            string              `json:"target_symbol"`
	TargetOriginalCusip     string              `json:"target_original_cusip"`
	DeclarationDate         *Date               `json:"declaration_date,omitempty"`
	ExDate                  *Date               `json:"ex_date,omitempty"`
	RecordDate              *Date               `json:"record_date,omitempty"`
	PayableDate             *Date               `json:"payable_date,omitempty"`
	EffectiveDate           *Date               `json:"effective_date,omitempty"`
	ExpirationDate          *Date               `json:"expiration_date,omitempty"`
	Cash                    Money               `json:"cash"`
	OldRate                 NumberAsString      `json:"old_rate"`
	NewRate                 NumberAsString      `json:"new_rate"`
}

// ListAnnouncementsParams filters ListAnnouncements. CATypes, Since and
// Until are required by the API; the range may span at most 90 days.
type ListAnnouncementsParams struct {
	CATypes  []CorporateActionType
	Since    Date
	Until    Date
	Symbol   string
	Cusip    string
	DateType *AnnouncementDateType
}

// Values renders the parameters as a query string.
func (p *ListAnnouncementsParams) Values() url.Values {
	q := url.Values{}
	types := make(CommaSeparated, 0, len(p.CATypes))
	for _, t := range p.CATypes {
		types = append(types, string(t))
	}
	setList(q, "ca_types", types)
	if !p.Since.IsZero() {
		q.Set("since", p.Since.String())
	}
	if !p.Until.IsZero() {
		q.Set("until", p.Until.String())
	}
	setString(q, "symbol", p.Symbol)
	setString(q, "cusip", p.Cusip)
	setOptional(q, "date_type", p.DateType, enumString)
	return q
}

// ListAnnouncements returns corporate action announcements in a date range.
func (c *Client) ListAnnouncements(ctx context.Context, params *ListAnnouncementsParams) ([]CorporateAction, error) {
	if params == nil || len(params.CATypes) == 0 {
		return nil, fmt.Errorf("at least one corporate action type is required")
	}
	return callList[CorporateAction](ctx, c, request{
		name:   "corporate_actions.list",
		method: http.MethodGet,
		path:   "/corporate_actions/announcements",
		query:  params.Values(),
	})
}

// GetAnnouncement returns one announcement by id.
func (c *Client) GetAnnouncement(ctx context.Context, id string) (*CorporateAction, error) {
	if id == "" {
		return nil, fmt.Errorf("announcement id is required")
	}
	return call[CorporateAction](ctx, c, request{
		name:   "corporate_actions.get",
		method: http.MethodGet,
		path:   "/corporate_actions/announcements/" + pathID(id),
	})
}
