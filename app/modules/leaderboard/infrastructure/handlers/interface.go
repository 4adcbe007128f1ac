package leaderboardhandlers

import (
	"net/http"
)

// Handlers defines the leaderboard HTTP API.
type Handlers interface {
	// HandleGetLeaderboard returns plugin info and the displayed snapshot.
	HandleGetLeaderboard(w http.ResponseWriter, r *http.Request)
	// HandleRefresh forces an update.
	HandleRefresh(w http.ResponseWriter, r *http.Request)
	// HandleChart renders the standings chart.
	HandleChart(w http.ResponseWriter, r *http.Request)
	// HandleExport streams the standings spreadsheet.
	HandleExport(w http.ResponseWriter, r *http.Request)
	// HandleFrame returns the last frame pushed to the panel.
	HandleFrame(w http.ResponseWriter, r *http.Request)
}

// FrameSource exposes the most recent panel frame as PNG.
type FrameSource interface {
	PNG() ([]byte, error)
}
