package leaderboardhandlers

import (
	"log/slog"

	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardHandlers implements the Handlers interface.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	frames  FrameSource
	palette leaderboardservice.ChartPalette
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers. frames may be nil,
// in which case /frame.png always answers 404.
func NewLeaderboardHandlers(
	service leaderboardservice.Service,
	frames FrameSource,
	palette leaderboardservice.ChartPalette,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &LeaderboardHandlers{
		service: service,
		frames:  frames,
		palette: palette,
		logger:  logger,
		tracer:  tracer,
	}
}
