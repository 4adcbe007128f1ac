// Package host drives a display plugin: it refreshes data on a timer and
// draws frames at the plugin's frame rate.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
	"github.com/google/uuid"
)

// Plugin is the contract between the host and a display plugin.
type Plugin interface {
	ID() string
	// Update refreshes plugin data. The plugin gates itself by its own interval.
	Update(ctx context.Context) error
	// Display draws one frame. forceClear is set at the start of a display window.
	Display(ctx context.Context, forceClear bool) error
	DisplayDuration() time.Duration
	FrameInterval() time.Duration
	ValidateConfig() error
	Info() map[string]any
	OnConfigChange(cfg any) error
	Cleanup()
}

// Runner runs one plugin until its context ends.
type Runner struct {
	plugin      Plugin
	logger      *slog.Logger
	updateEvery time.Duration
	now         func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithUpdateTick sets how often Update is called. Defaults to one second.
func WithUpdateTick(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.updateEvery = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a Runner for plugin.
func NewRunner(plugin Plugin, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		plugin:      plugin,
		logger:      logger,
		updateEvery: time.Second,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run validates the plugin, performs the initial update and then loops until
// ctx is cancelled. Cleanup always runs before Run returns.
func (r *Runner) Run(ctx context.Context) error {
	id := r.plugin.ID()
	logger := r.logger.With(attr.String("plugin_id", id))

	if err := r.plugin.ValidateConfig(); err != nil {
		return fmt.Errorf("plugin %s has invalid config: %w", id, err)
	}
	defer func() {
		r.plugin.Cleanup()
		logger.Info("Plugin cleaned up")
	}()

	r.update(ctx, logger)

	frameInterval := r.plugin.FrameInterval()
	if frameInterval <= 0 {
		frameInterval = time.Second
	}
	frames := time.NewTicker(frameInterval)
	defer frames.Stop()
	updates := time.NewTicker(r.updateEvery)
	defer updates.Stop()

	logger.InfoContext(ctx, "Plugin host started",
		attr.Duration("frame_interval", frameInterval),
		attr.Duration("display_duration", r.plugin.DisplayDuration()),
	)

	var windowStart time.Time
	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "Plugin host stopping")
			return nil
		case <-updates.C:
			r.update(ctx, logger)
		case <-frames.C:
			now := r.now()
			forceClear := windowStart.IsZero() || now.Sub(windowStart) >= r.plugin.DisplayDuration()
			if forceClear {
				windowStart = now
			}
			if err := r.plugin.Display(ctx, forceClear); err != nil {
				logger.WarnContext(ctx, "Display failed", attr.Error(err))
			}
		}
	}
}

func (r *Runner) update(ctx context.Context, logger *slog.Logger) {
	ctx = attr.WithCorrelationID(ctx, uuid.NewString())
	if err := r.plugin.Update(ctx); err != nil {
		logger.ErrorContext(ctx, "Plugin update failed",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
	}
}
