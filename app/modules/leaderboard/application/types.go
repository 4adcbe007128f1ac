package leaderboardservice

import (
	"time"
)

// LeaderboardRefreshedV1 is published after every update that reached the feed.
const LeaderboardRefreshedV1 = "pga.leaderboard.refreshed.v1"

const (
	defaultTournamentName = "PGA Tour"
	defaultPlayerName     = "Unknown"
	defaultScore          = "E"
	stateScheduled        = "scheduled"
	stateCompleted        = "completed"
	statePost             = "post"
	stateInProgress       = "in"
)

// UpdateOutcome describes what an update ended up with.
type UpdateOutcome string

const (
	OutcomeSkipped  UpdateOutcome = "skipped"
	OutcomeCurrent  UpdateOutcome = "current"
	OutcomePrevious UpdateOutcome = "previous"
	OutcomeNoData   UpdateOutcome = "no_data"
)

// Tournament is the selected event.
type Tournament struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Date   string    `json:"date"`
	Start  time.Time `json:"start"`
	Status string    `json:"status"`
	Detail string    `json:"detail,omitempty"`
}

// Player is one leaderboard row.
type Player struct {
	Position  string `json:"position"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	Score     string `json:"score"`
	Status    string `json:"status,omitempty"`
}

// Snapshot is what should be on the panel right now.
type Snapshot struct {
	Tournament *Tournament `json:"tournament"`
	Players    []Player    `json:"players"`
	IsPrevious bool        `json:"is_previous"`
	UpdatedAt  *time.Time  `json:"updated_at"`
}

// Empty reports whether there is nothing to display.
func (s Snapshot) Empty() bool {
	return s.Tournament == nil || len(s.Players) == 0
}

// Info is the plugin status shown by the web UI.
type Info struct {
	PluginID             string  `json:"plugin_id"`
	Enabled              bool    `json:"enabled"`
	DisplayMode          string  `json:"display_mode"`
	CurrentTournament    *string `json:"current_tournament"`
	PlayersCount         int     `json:"players_count"`
	PreviousTournament   *string `json:"previous_tournament"`
	PreviousPlayersCount int     `json:"previous_players_count"`
	LastUpdate           *string `json:"last_update"`
}

// RefreshedPayloadV1 is the body of LeaderboardRefreshedV1.
type RefreshedPayloadV1 struct {
	PluginID    string        `json:"plugin_id"`
	Outcome     UpdateOutcome `json:"outcome"`
	Tournament  string        `json:"tournament,omitempty"`
	IsPrevious  bool          `json:"is_previous"`
	PlayerCount int           `json:"player_count"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
