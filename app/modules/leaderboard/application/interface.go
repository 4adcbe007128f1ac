package leaderboardservice

import (
	"context"

	"github.com/Black-And-White-Club/pga-leaderboard/config"
)

// Service defines the leaderboard operations used by the plugin, the HTTP
// API and the CLI.
type Service interface {
	// Update refreshes tournament data unless the update interval has not elapsed.
	Update(ctx context.Context) (UpdateOutcome, error)
	// ForceUpdate refreshes regardless of the update interval.
	ForceUpdate(ctx context.Context) (UpdateOutcome, error)
	// Snapshot returns the leaderboard that should be displayed.
	Snapshot() Snapshot
	// Info reports plugin state for status pages.
	Info() Info
	// ApplyConfig swaps plugin settings after validating them.
	ApplyConfig(cfg config.PluginConfig) error
	// Reset drops all tournament state.
	Reset()
}
