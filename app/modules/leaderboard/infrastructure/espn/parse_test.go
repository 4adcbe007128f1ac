package espn

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	body, err := os.ReadFile("testdata/leaderboard.json")
	require.NoError(t, err)
	return body
}

func TestParse(t *testing.T) {
	sb, err := Parse(loadFixture(t))
	require.NoError(t, err)
	require.Len(t, sb.Events, 2)

	masters := sb.Events[0]
	assert.Equal(t, "401580344", masters.ID)
	assert.Equal(t, "Masters Tournament", masters.Name)
	assert.Equal(t, "2024-04-11T07:00Z", masters.Date)
	assert.Equal(t, "in", masters.State)
	assert.Equal(t, "Round 3 - In Progress", masters.StatusDetail)
	assert.True(t, masters.HasCompetition)

	want := []Competitor{
		{ID: "9780", SortOrder: 2, RawSortOrder: "2", Position: "T2", DisplayName: "Collin Morikawa", ShortName: "C. Morikawa", StatScore: "-4", Score: "-4", Status: "F"},
		{ID: "9478", SortOrder: 1, RawSortOrder: "1", Position: "1", DisplayName: "Scottie Scheffler", ShortName: "S. Scheffler", StatScore: "-7", Score: "-7", Status: "F"},
		{ID: "10140", SortOrder: UnrankedSortOrder, RawSortOrder: "n/a", DisplayName: "Max Homa", Score: "E", Status: "active"},
		{ID: "5539", SortOrder: 3, RawSortOrder: "3", DisplayName: "Bryson DeChambeau", ShortName: "B. DeChambeau", StatScore: "-3"},
	}
	if diff := cmp.Diff(want, masters.Competitors); diff != "" {
		t.Errorf("competitors mismatch (-want +got):\n%s", diff)
	}

	heritage := sb.Events[1]
	assert.Equal(t, "pre", heritage.State)
	assert.False(t, heritage.HasCompetition)
	assert.Empty(t, heritage.Competitors)
}

func TestParseEdgeCases(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantErr    error
		wantEvents int
	}{
		{name: "malformed", body: `{"events": [`, wantErr: ErrMalformedPayload},
		{name: "no events key", body: `{"leagues": []}`},
		{name: "empty events", body: `{"events": []}`},
		{name: "events without fields", body: `{"events": [{}]}`, wantEvents: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb, err := Parse([]byte(tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, sb.Events, tt.wantEvents)
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := map[string]int{
		`{"v": 4}`:      4,
		`{"v": "12"}`:   12,
		`{"v": " 7 "}`:  7,
		`{"v": "T3"}`:   UnrankedSortOrder,
		`{"v": 1.5}`:    UnrankedSortOrder,
		`{"v": null}`:   UnrankedSortOrder,
		`{}`:            UnrankedSortOrder,
		`{"v": true}`:   UnrankedSortOrder,
		`{"v": [1, 2]}`: UnrankedSortOrder,
	}
	for body, want := range tests {
		assert.Equal(t, want, ParseSortOrder(gjson.Get(body, "v")), body)
	}
}

func TestParseScoreShapes(t *testing.T) {
	body := `{"events": [{"competitions": [{"competitors": [
		{"score": 3},
		{"score": {"displayValue": "+1"}},
		{"score": null, "statistics": [{"name": "score", "displayValue": ""}, {"name": "score", "value": 70}]},
		{"status": {"type": {"description": "Cut"}}}
	]}]}]}`

	sb, err := Parse([]byte(body))
	require.NoError(t, err)
	comps := sb.Events[0].Competitors
	require.Len(t, comps, 4)

	assert.Equal(t, "3", comps[0].Score)
	assert.Equal(t, "+1", comps[1].Score)
	assert.Equal(t, "", comps[2].Score)
	assert.Equal(t, "70", comps[2].StatScore)
	assert.Equal(t, "Cut", comps[3].Status)
}
