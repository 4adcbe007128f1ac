package leaderboardservice

import (
	"context"
	"time"

	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/espn"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
)

// fallbackOffsets are the days looked back for a completed tournament.
var fallbackOffsets = []int{7, 14, 21, 28}

// fetchPreviousTournament walks back week by week looking for a completed
// event. Query errors and empty weeks move on to the next offset. The
// previously found tournament is kept when nothing turns up.
func (s *LeaderboardService) fetchPreviousTournament(ctx context.Context, now time.Time, cfg config.PluginConfig) {
	for _, days := range fallbackOffsets {
		dates := now.UTC().AddDate(0, 0, -days).Format("20060102")

		events, err := s.feed.Events(ctx, espn.Query{
			Dates:    dates,
			CacheKey: cfg.ID + "_pga_previous_" + dates,
			CacheTTL: s.previousTTL,
		})
		if err != nil {
			s.metrics.RecordFetch(ctx, "previous", "error")
			s.logger.DebugContext(ctx, "Error fetching tournament",
				attr.ExtractCorrelationID(ctx),
				attr.String("dates", dates),
				attr.Error(err),
			)
			continue
		}
		s.metrics.RecordFetch(ctx, "previous", "ok")

		t, players := selectCompleted(events, cfg.FallbackPlayers)
		if t == nil {
			continue
		}

		s.mu.Lock()
		s.previous = t
		s.previousLeaderboard = players
		s.mu.Unlock()

		s.logger.InfoContext(ctx, "Found previous tournament",
			attr.ExtractCorrelationID(ctx),
			attr.String("tournament", t.Name),
			attr.String("dates", dates),
			attr.Int("players", len(players)),
		)
		return
	}
}

// selectCompleted returns the first finished event that has a competition.
func selectCompleted(events []espn.Event, limit int) (*Tournament, []Player) {
	for _, ev := range events {
		if ev.State != statePost || !ev.HasCompetition {
			continue
		}
		start, _ := ParseEventDate(ev.Date)
		t := newTournament(ev, start, stateCompleted)
		t.Status = stateCompleted
		return t, buildPlayers(ev.Competitors, limit)
	}
	return nil, nil
}
