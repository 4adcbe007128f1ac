package displayservice

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
)

// Service renders the leaderboard onto the matrix.
type Service interface {
	// Display pushes one frame, clearing first when forceClear is set.
	Display(ctx context.Context, forceClear bool) error
	// ApplyConfig swaps display settings, reloading assets only when needed.
	ApplyConfig(cfg config.PluginConfig) error
	// ResetScroll restarts the ticker from the beginning.
	ResetScroll()
}

// SnapshotSource provides what should be displayed.
type SnapshotSource interface {
	Snapshot() leaderboardservice.Snapshot
}
