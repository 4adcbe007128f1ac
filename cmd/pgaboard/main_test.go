package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"
)

func TestPrintSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		outcome  leaderboardservice.UpdateOutcome
		snap     leaderboardservice.Snapshot
		contains []string
	}{
		{
			name:     "no data",
			outcome:  leaderboardservice.OutcomeNoData,
			contains: []string{"No PGA Tour tournaments (no_data)"},
		},
		{
			name:    "previous tournament",
			outcome: leaderboardservice.OutcomePrevious,
			snap: leaderboardservice.Snapshot{
				Tournament: &leaderboardservice.Tournament{Name: "RBC Heritage", Status: "completed"},
				Players:    []leaderboardservice.Player{{Position: "1", Name: "Scottie Scheffler", Score: "-19"}},
				IsPrevious: true,
			},
			contains: []string{"PREV: RBC Heritage [completed]", "POS", "Scottie Scheffler", "-19"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, printSnapshot(&buf, tt.outcome, tt.snap))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func newTestCLI(out *bytes.Buffer) *cli.App {
	return &cli.App{
		Name:           "pgaboard",
		Writer:         out,
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml"},
		},
		Commands: []*cli.Command{validateCommand()},
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte("plugin:\n  max_players: 15\n"), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("plugin:\n  max_players: 50\n  display_mode: marquee\n"), 0o600))

	t.Run("valid", func(t *testing.T) {
		var out bytes.Buffer
		err := newTestCLI(&out).Run([]string{"pgaboard", "--config", good, "validate"})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "configuration is valid")
	})

	t.Run("invalid", func(t *testing.T) {
		var out bytes.Buffer
		err := newTestCLI(&out).Run([]string{"pgaboard", "--config", bad, "validate"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_players")
		assert.Contains(t, err.Error(), "display_mode")
	})
}

func TestWriteWorkbook(t *testing.T) {
	snap := leaderboardservice.Snapshot{
		Tournament: &leaderboardservice.Tournament{Name: "Masters Tournament"},
		Players: []leaderboardservice.Player{
			{Position: "1", Name: "Scottie Scheffler", ShortName: "S. Scheffler", Score: "-11"},
		},
	}
	path := filepath.Join(t.TempDir(), "leaderboard.xlsx")
	require.NoError(t, writeWorkbook(path, snap))

	book, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer book.Close()
	assert.NotEmpty(t, book.GetSheetList())

	err = writeWorkbook(filepath.Join(t.TempDir(), "missing", "leaderboard.xlsx"), snap)
	assert.ErrorContains(t, err, "failed to create")
}
