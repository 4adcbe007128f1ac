package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/pga-leaderboard/app/host"
	displayservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/application"
	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
)

// LeaderboardPlugin adapts the leaderboard and display modules to host.Plugin.
type LeaderboardPlugin struct {
	leaderboard leaderboardservice.Service
	display     displayservice.Service
	logger      *slog.Logger

	mu  sync.RWMutex
	cfg config.PluginConfig
}

var _ host.Plugin = (*LeaderboardPlugin)(nil)

// NewLeaderboardPlugin creates the plugin adapter.
func NewLeaderboardPlugin(
	cfg config.PluginConfig,
	leaderboard leaderboardservice.Service,
	display displayservice.Service,
	logger *slog.Logger,
) *LeaderboardPlugin {
	return &LeaderboardPlugin{
		leaderboard: leaderboard,
		display:     display,
		logger:      logger,
		cfg:         cfg,
	}
}

func (p *LeaderboardPlugin) config() config.PluginConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

func (p *LeaderboardPlugin) ID() string { return p.config().ID }

// Update refreshes tournament data when the update interval has elapsed.
func (p *LeaderboardPlugin) Update(ctx context.Context) error {
	outcome, err := p.leaderboard.Update(ctx)
	if err != nil {
		return err
	}
	if outcome != leaderboardservice.OutcomeSkipped {
		p.logger.DebugContext(ctx, "Leaderboard updated",
			attr.ExtractCorrelationID(ctx),
			attr.String("outcome", string(outcome)),
		)
	}
	return nil
}

func (p *LeaderboardPlugin) Display(ctx context.Context, forceClear bool) error {
	return p.display.Display(ctx, forceClear)
}

func (p *LeaderboardPlugin) DisplayDuration() time.Duration { return p.config().DisplayDuration() }

func (p *LeaderboardPlugin) FrameInterval() time.Duration { return p.config().FrameInterval() }

func (p *LeaderboardPlugin) ValidateConfig() error {
	cfg := p.config()
	return cfg.Validate()
}

// Info reports leaderboard state plus the display settings in effect.
func (p *LeaderboardPlugin) Info() map[string]any {
	cfg := p.config()
	info := p.leaderboard.Info()
	return map[string]any{
		"plugin_id":              info.PluginID,
		"enabled":                info.Enabled,
		"display_mode":           info.DisplayMode,
		"current_tournament":     info.CurrentTournament,
		"players_count":          info.PlayersCount,
		"previous_tournament":    info.PreviousTournament,
		"previous_players_count": info.PreviousPlayersCount,
		"last_update":            info.LastUpdate,
		"scroll_speed":           cfg.ScrollSpeed,
		"frame_rate":             cfg.FrameRate,
		"font_name":              cfg.FontName,
		"font_size":              cfg.FontSize,
		"show_logo":              cfg.ShowLogo,
		"display_duration":       cfg.DisplayDurationSecs,
	}
}

// OnConfigChange validates the new settings and hands them to both modules.
// Nothing is applied when validation fails.
func (p *LeaderboardPlugin) OnConfigChange(v any) error {
	var cfg config.PluginConfig
	switch c := v.(type) {
	case config.PluginConfig:
		cfg = c
	case *config.PluginConfig:
		if c == nil {
			return fmt.Errorf("nil plugin config")
		}
		cfg = *c
	default:
		return fmt.Errorf("unsupported config type %T", v)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid plugin config: %w", err)
	}
	if err := p.leaderboard.ApplyConfig(cfg); err != nil {
		return fmt.Errorf("failed to apply leaderboard config: %w", err)
	}
	if err := p.display.ApplyConfig(cfg); err != nil {
		return fmt.Errorf("failed to apply display config: %w", err)
	}

	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()

	p.logger.Info("Plugin configuration updated", attr.String("display_mode", cfg.DisplayMode))
	return nil
}

// Cleanup drops tournament state.
func (p *LeaderboardPlugin) Cleanup() {
	p.leaderboard.Reset()
}
