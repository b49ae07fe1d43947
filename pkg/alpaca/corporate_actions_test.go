package alpaca

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const announcementJSON = `{
	"id": "d99eb57c-19b4-40b9-ab1e-a0971bf5f288",
	"corporate_action_id": "2829511",
	"ca_type": "merger",
	"ca_sub_type": "merger_completion",
	"initiating_symbol": "CAC",
	"initiating_original_cusip": "133034108",
	"target_symbol": "NWYF",
	"target_original_cusip": "667270102",
	"effective_date": "2025-01-02",
	"record_date": null,
	"cash": "0",
	"old_rate": "1",
	"new_rate": "0.83"
}`

func TestClient_ListAnnouncements(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assertAuthHeaders(t, r)
		assert.Equal(t, "/v2/corporate_actions/announcements", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "dividend,merger", q.Get("ca_types"))
		assert.Equal(t, "2025-01-30", q.Get("since"))
		assert.Equal(t, "2025-03-30", q.Get("until"))
		assert.False(t, q.Has("symbol"))

		respond(w, http.StatusOK, `[`+announcementJSON+`]`)
	})

	actions, err := client.ListAnnouncements(context.Background(), &ListAnnouncementsParams{
		CATypes: []CorporateActionType{CorporateActionDividend, CorporateActionMerger},
		Since:   NewDate(2025, time.January, 30),
		Until:   NewDate(2025, time.March, 30),
	})
	require.NoError(t, err)
	require.Len(t, actions, 1)

	action := actions[0]
	assert.Equal(t, CorporateActionMerger, action.CAType)
	require.NotNil(t, action.EffectiveDate)
	assert.Equal(t, NewDate(2025, time.January, 2), *action.EffectiveDate)
	assert.Nil(t, action.RecordDate)
	assert.Equal(t, Money(0), action.Cash)
	assert.Equal(t, NumberAsString(0.83), action.NewRate)
}

func TestClient_ListAnnouncements_RequiresType(t *testing.T) {
	client := NewClient(PaperURL, "k", "s")

	_, err := client.ListAnnouncements(context.Background(), &ListAnnouncementsParams{})
	assert.EqualError(t, err, "at least one corporate action type is required")

	_, err = client.ListAnnouncements(context.Background(), nil)
	assert.Error(t, err)
}

func TestClient_GetAnnouncement(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/corporate_actions/announcements/d99eb57c-19b4-40b9-ab1e-a0971bf5f288", r.URL.Path)
		respond(w, http.StatusOK, announcementJSON)
	})

	action, err := client.GetAnnouncement(context.Background(), "d99eb57c-19b4-40b9-ab1e-a0971bf5f288")
	require.NoError(t, err)
	assert.Equal(t, "2829511", action.CorporateActionID)
	assert.Equal(t, "NWYF", action.TargetSymbol)
}
