package export

import (
	"bytes"
	"testing"

	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	return rows
}

func TestWriteXLSX(t *testing.T) {
	tests := []struct {
		name string
		snap leaderboardservice.Snapshot
		want [][]string
	}{
		{
			name: "current tournament",
			snap: leaderboardservice.Snapshot{
				Tournament: &leaderboardservice.Tournament{Name: "Masters Tournament"},
				Players: []leaderboardservice.Player{
					{Position: "1", Name: "Scottie Scheffler", Score: "-11", Status: "F"},
					{Position: "T2", Name: "Ludvig Aberg", Score: "-7"},
				},
			},
			want: [][]string{
				{"Masters Tournament"},
				{"Position", "Player", "Score", "Status"},
				{"1", "Scottie Scheffler", "-11", "F"},
				{"T2", "Ludvig Aberg", "-7"},
			},
		},
		{
			name: "previous tournament",
			snap: leaderboardservice.Snapshot{
				Tournament: &leaderboardservice.Tournament{Name: "Valero Texas Open"},
				IsPrevious: true,
				Players:    []leaderboardservice.Player{{Position: "1", Name: "Akshay Bhatia", Score: "-20"}},
			},
			want: [][]string{
				{"PREV: Valero Texas Open"},
				{"Position", "Player", "Score", "Status"},
				{"1", "Akshay Bhatia", "-20"},
			},
		},
		{
			name: "empty",
			want: [][]string{
				{"No PGA Tour tournaments"},
				{"Position", "Player", "Score", "Status"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteXLSX(&buf, tt.snap))
			assert.Equal(t, tt.want, readRows(t, buf.Bytes()))
		})
	}
}
