package displayservice

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/infrastructure/matrix"
	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	modeNoData = "no_data"
	modeError  = "error"
)

// DisplayService implements the Service interface.
type DisplayService struct {
	matrix   matrix.Matrix
	source   SnapshotSource
	logger   *slog.Logger
	metrics  observability.DisplayMetrics
	tracer   trace.Tracer
	scroller *Scroller

	mu       sync.Mutex
	cfg      config.PluginConfig
	renderer Renderer
	strip    *image.RGBA
	stripKey string
}

var _ Service = (*DisplayService)(nil)

// NewDisplayService creates a new DisplayService and loads its font and logo.
func NewDisplayService(
	cfg config.PluginConfig,
	mx matrix.Matrix,
	source SnapshotSource,
	logger *slog.Logger,
	metrics observability.DisplayMetrics,
	tracer trace.Tracer,
) *DisplayService {
	if metrics == nil {
		metrics = observability.NoOpDisplayMetrics{}
	}
	s := &DisplayService{
		matrix:   mx,
		source:   source,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		scroller: NewScroller(cfg.ScrollSpeed),
		cfg:      cfg,
		renderer: Renderer{
			Width:     mx.Width(),
			Height:    mx.Height(),
			FontSize:  cfg.FontSize,
			Text:      cfg.TextColor.Color(),
			Highlight: cfg.HighlightColor.Color(),
		},
	}
	s.renderer.Face = LoadFace(cfg.FontDir, cfg.FontName, cfg.FontSize, logger)
	if cfg.ShowLogo {
		s.loadLogo(cfg.LogoPath)
	}
	return s
}

func (s *DisplayService) loadLogo(path string) {
	s.renderer.Logo = LoadLogo(path, s.renderer.Height, s.logger)
	if s.renderer.Logo != nil && !s.renderer.LogoFits() {
		s.logger.Warn("Logo too wide for the panel, scrolling without it",
			attr.String("logo_path", path),
			attr.Int("logo_width", s.renderer.Logo.Bounds().Dx()),
			attr.Int("panel_width", s.renderer.Width),
		)
	}
}

// Display renders the current snapshot. forceClear blanks the panel first;
// the ticker keeps its offset so the next window picks up where the last one
// stopped. A render failure puts the error screen up and is returned.
func (s *DisplayService) Display(ctx context.Context, forceClear bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if forceClear {
		if err := s.matrix.Clear(ctx); err != nil {
			s.logger.WarnContext(ctx, "Failed to clear matrix", attr.Error(err))
		}
	}

	snap := s.source.Snapshot()
	mode, frame, err := s.render(snap)
	if err == nil {
		err = s.matrix.Show(ctx, frame)
	}
	if err != nil {
		s.metrics.RecordRenderFailure(ctx, mode)
		s.logger.ErrorContext(ctx, "Error displaying leaderboard",
			attr.String("mode", mode),
			attr.Error(err),
		)
		s.showError(ctx)
		return err
	}

	s.metrics.RecordFrameRendered(ctx, mode)
	return nil
}

func (s *DisplayService) showError(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "Error displaying error message", attr.Any("panic", r))
		}
	}()
	if err := s.matrix.Show(ctx, s.renderer.Error()); err != nil {
		s.logger.ErrorContext(ctx, "Error displaying error message", attr.Error(err))
		return
	}
	s.metrics.RecordFrameRendered(ctx, modeError)
}

func (s *DisplayService) render(snap leaderboardservice.Snapshot) (mode string, frame *image.RGBA, err error) {
	mode = s.cfg.DisplayMode
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic rendering %s frame: %v", mode, r)
			frame = nil
		}
	}()

	if snap.Empty() {
		return modeNoData, s.renderer.NoData(), nil
	}

	switch s.cfg.DisplayMode {
	case config.DisplayModeStatic:
		return mode, s.renderer.Static(snap), nil
	case config.DisplayModeScroll:
		strip := s.stripFor(snap)
		offset := s.scroller.Next(strip.Bounds().Dx())
		return mode, s.renderer.ScrollFrame(strip, offset), nil
	default:
		return mode, nil, fmt.Errorf("unknown display mode %q", s.cfg.DisplayMode)
	}
}

// stripFor reuses the ticker image until the snapshot changes.
func (s *DisplayService) stripFor(snap leaderboardservice.Snapshot) *image.RGBA {
	key := snapshotKey(snap)
	if s.strip == nil || key != s.stripKey {
		s.strip = s.renderer.Strip(snap)
		s.stripKey = key
	}
	return s.strip
}

func snapshotKey(snap leaderboardservice.Snapshot) string {
	var updated time.Time
	if snap.UpdatedAt != nil {
		updated = *snap.UpdatedAt
	}
	return fmt.Sprintf("%s|%t|%d|%d", Title(snap), snap.IsPrevious, len(snap.Players), updated.UnixNano())
}

// ResetScroll restarts the ticker and drops the cached strip.
func (s *DisplayService) ResetScroll() {
	s.mu.Lock()
	s.strip = nil
	s.stripKey = ""
	s.mu.Unlock()
	s.scroller.Reset()
}

// ApplyConfig swaps display settings. Fonts are reloaded only when the font
// changed and the logo only when its settings changed.
func (s *DisplayService) ApplyConfig(cfg config.PluginConfig) error {
	ctx, span := s.tracer.Start(context.Background(), "DisplayService.ApplyConfig",
		trace.WithAttributes(attribute.String("display_mode", cfg.DisplayMode)),
	)
	defer span.End()

	if err := cfg.Validate(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("invalid plugin config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.cfg
	if old.FontName != cfg.FontName || old.FontSize != cfg.FontSize || old.FontDir != cfg.FontDir {
		s.renderer.Face = LoadFace(cfg.FontDir, cfg.FontName, cfg.FontSize, s.logger)
		s.renderer.FontSize = cfg.FontSize
		s.logger.InfoContext(ctx, "Reloaded font", attr.String("font", cfg.FontName), attr.Int("size", cfg.FontSize))
	}
	if old.ShowLogo != cfg.ShowLogo || old.LogoPath != cfg.LogoPath {
		s.renderer.Logo = nil
		if cfg.ShowLogo {
			s.loadLogo(cfg.LogoPath)
		}
		s.logger.InfoContext(ctx, "Reloaded logo", attr.Bool("show_logo", cfg.ShowLogo))
	}

	s.renderer.Text = cfg.TextColor.Color()
	s.renderer.Highlight = cfg.HighlightColor.Color()
	s.scroller.SetSpeed(cfg.ScrollSpeed)
	s.scroller.Reset()
	s.strip = nil
	s.stripKey = ""
	s.cfg = cfg
	return nil
}
