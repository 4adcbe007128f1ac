package leaderboardservice

import (
	"sort"
	"strconv"
	"time"

	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/espn"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
)

// dateLayouts are tried in order; the feed omits seconds.
var dateLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339,
	"2006-01-02",
}

// ParseEventDate parses a feed date in any of the accepted layouts.
func ParseEventDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// selectCurrent picks the first event that is in progress or starts inside
// the date window, and builds its leaderboard.
func selectCurrent(events []espn.Event, now time.Time, cfg config.PluginConfig) (*Tournament, []Player) {
	if len(events) == 0 {
		return nil, nil
	}

	now = now.UTC()
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	windowEnd := now.AddDate(0, 0, cfg.TournamentDateRange)

	for _, ev := range events {
		start, ok := ParseEventDate(ev.Date)
		if !ok {
			continue
		}
		inWindow := !start.Before(windowStart) && !start.After(windowEnd)
		if ev.State != stateInProgress && !inWindow {
			continue
		}

		t := newTournament(ev, start, stateScheduled)
		return t, buildPlayers(ev.Competitors, cfg.MaxPlayers)
	}
	return nil, nil
}

func newTournament(ev espn.Event, start time.Time, defaultStatus string) *Tournament {
	t := &Tournament{
		ID:     ev.ID,
		Name:   ev.Name,
		Date:   ev.Date,
		Start:  start,
		Status: ev.State,
		Detail: ev.StatusDetail,
	}
	if t.Name == "" {
		t.Name = defaultTournamentName
	}
	if t.Status == "" {
		t.Status = defaultStatus
	}
	return t
}

// buildPlayers sorts by sort order, keeps at most limit rows and maps them to
// display players.
func buildPlayers(competitors []espn.Competitor, limit int) []Player {
	if len(competitors) == 0 || limit <= 0 {
		return nil
	}

	sorted := make([]espn.Competitor, len(competitors))
	copy(sorted, competitors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	players := make([]Player, 0, len(sorted))
	for _, c := range sorted {
		players = append(players, buildPlayer(c))
	}
	return players
}

func buildPlayer(c espn.Competitor) Player {
	name := c.DisplayName
	if name == "" {
		name = defaultPlayerName
	}
	short := c.ShortName
	if short == "" {
		short = name
	}

	position := c.Position
	if position == "" {
		if c.SortOrder != espn.UnrankedSortOrder {
			position = strconv.Itoa(c.SortOrder)
		} else {
			position = c.RawSortOrder
		}
	}

	return Player{
		Position:  position,
		Name:      name,
		ShortName: short,
		Score:     scoreDisplay(c),
		Status:    c.Status,
	}
}

func scoreDisplay(c espn.Competitor) string {
	switch {
	case c.StatScore != "":
		return c.StatScore
	case c.Score != "":
		return c.Score
	default:
		return defaultScore
	}
}
