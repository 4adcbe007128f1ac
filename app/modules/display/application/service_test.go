package displayservice

import (
	"context"
	"errors"
	"fmt"
	"image"
	"testing"

	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestDisplay(t *testing.T, cfg config.PluginConfig, snap func() leaderboardservice.Snapshot) (*DisplayService, *FakeMatrix, *FakeDisplayMetrics) {
	t.Helper()
	cfg.FontDir = t.TempDir()
	cfg.ShowLogo = false
	mx := NewFakeMatrix(64, 32)
	metrics := &FakeDisplayMetrics{}
	s := NewDisplayService(cfg, mx, &FakeSnapshotSource{SnapshotFunc: snap}, testLogger(), metrics, noop.NewTracerProvider().Tracer("test"))
	return s, mx, metrics
}

func TestDisplayService_Display(t *testing.T) {
	tests := []struct {
		name         string
		mode         string
		snap         leaderboardservice.Snapshot
		forceClear   bool
		wantTrace    []string
		wantRendered []string
	}{
		{
			name:         "no data",
			mode:         config.DisplayModeScroll,
			wantTrace:    []string{"Show"},
			wantRendered: []string{"no_data"},
		},
		{
			name:         "scroll",
			mode:         config.DisplayModeScroll,
			snap:         testSnapshot(false),
			wantTrace:    []string{"Show"},
			wantRendered: []string{"scroll"},
		},
		{
			name:         "static with clear",
			mode:         config.DisplayModeStatic,
			snap:         testSnapshot(true),
			forceClear:   true,
			wantTrace:    []string{"Clear", "Show"},
			wantRendered: []string{"static"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultPlugin()
			cfg.DisplayMode = tt.mode
			s, mx, metrics := newTestDisplay(t, cfg, func() leaderboardservice.Snapshot { return tt.snap })

			require.NoError(t, s.Display(context.Background(), tt.forceClear))
			assert.Equal(t, tt.wantTrace, mx.Trace())
			assert.Equal(t, tt.wantRendered, metrics.Rendered)
			assert.Empty(t, metrics.Failures)

			frame, err := mx.Frame()
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 64, 32), frame.Bounds())
		})
	}
}

func TestDisplayService_ScrollAdvances(t *testing.T) {
	cfg := config.DefaultPlugin()
	cfg.ScrollSpeed = 2
	s, _, _ := newTestDisplay(t, cfg, func() leaderboardservice.Snapshot { return testSnapshot(false) })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Display(ctx, false))
	}
	assert.Equal(t, 6, s.scroller.Offset())

	require.NoError(t, s.Display(ctx, true))
	assert.Equal(t, 8, s.scroller.Offset(), "a new display window continues the ticker")

	s.ResetScroll()
	assert.Equal(t, 0, s.scroller.Offset())
	assert.Nil(t, s.strip)
}

func TestDisplayService_ScrollReachesEveryPlayerAcrossWindows(t *testing.T) {
	cfg := config.DefaultPlugin()
	snap := testSnapshot(false)
	for i := len(snap.Players); i < 10; i++ {
		snap.Players = append(snap.Players, leaderboardservice.Player{
			Position: fmt.Sprintf("T%d", i+1), ShortName: fmt.Sprintf("P. Golfer%d", i+1), Score: "-2",
		})
	}
	s, mx, _ := newTestDisplay(t, cfg, func() leaderboardservice.Snapshot { return snap })
	ctx := context.Background()

	strip := s.renderer.Strip(snap)
	last := snap.Players[len(snap.Players)-1]
	lastX := strip.Bounds().Dx() - s.renderer.ScrollArea() - textWidth(s.renderer.Face, PlayerLine(last, 0))
	require.Greater(t, lastX, s.renderer.Width)

	framesPerWindow := int(cfg.DisplayDuration() / cfg.FrameInterval())
	require.Less(t, framesPerWindow*cfg.ScrollSpeed, lastX, "one window alone cannot reach the last player")

	reached := false
	for frame := 0; frame < 2*strip.Bounds().Dx() && !reached; frame++ {
		offset := s.scroller.Offset()
		require.NoError(t, s.Display(ctx, frame%framesPerWindow == 0))
		if offset >= lastX {
			reached = true
			img, err := mx.Frame()
			require.NoError(t, err)
			assert.Positive(t, countColor(img, cfg.TextColor.Color(), img.Bounds()))
		}
	}
	assert.True(t, reached, "the last player never scrolled onto the panel")
}

func TestDisplayService_ShowFailureShowsErrorScreen(t *testing.T) {
	cfg := config.DefaultPlugin()
	s, mx, metrics := newTestDisplay(t, cfg, func() leaderboardservice.Snapshot { return testSnapshot(false) })

	calls := 0
	mx.ShowFunc = func(ctx context.Context, img image.Image) error {
		calls++
		if calls == 1 {
			return errors.New("panel unplugged")
		}
		return nil
	}

	err := s.Display(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, []string{"scroll"}, metrics.Failures)
	assert.Equal(t, []string{"error"}, metrics.Rendered)

	frame, err := mx.Frame()
	require.NoError(t, err)
	assert.Positive(t, countColor(frame, errorColor, frame.Bounds()))
}

func TestDisplayService_PanicShowsErrorScreen(t *testing.T) {
	cfg := config.DefaultPlugin()
	cfg.DisplayMode = config.DisplayModeStatic
	snap := testSnapshot(false)
	s, mx, metrics := newTestDisplay(t, cfg, func() leaderboardservice.Snapshot { return snap })
	s.renderer.Face = nil

	err := s.Display(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic rendering")
	assert.Equal(t, []string{"static"}, metrics.Failures)
	assert.Empty(t, metrics.Rendered)
	assert.Empty(t, mx.Trace())
}

func TestDisplayService_UnknownMode(t *testing.T) {
	cfg := config.DefaultPlugin()
	s, mx, metrics := newTestDisplay(t, cfg, func() leaderboardservice.Snapshot { return testSnapshot(false) })
	s.cfg.DisplayMode = "marquee"

	require.Error(t, s.Display(context.Background(), false))
	assert.Equal(t, []string{"marquee"}, metrics.Failures)
	assert.Equal(t, []string{"error"}, metrics.Rendered)
	assert.Equal(t, []string{"Show"}, mx.Trace())
}

func TestDisplayService_ApplyConfig(t *testing.T) {
	cfg := config.DefaultPlugin()
	s, _, _ := newTestDisplay(t, cfg, func() leaderboardservice.Snapshot { return testSnapshot(false) })
	ctx := context.Background()

	require.NoError(t, s.Display(ctx, false))
	require.NotNil(t, s.strip)
	face := s.renderer.Face

	bad := s.cfg
	bad.ScrollSpeed = 0
	require.Error(t, s.ApplyConfig(bad))

	next := s.cfg
	next.DisplayMode = config.DisplayModeStatic
	next.TextColor = config.RGB{R: 10, G: 20, B: 30}
	require.NoError(t, s.ApplyConfig(next))
	assert.Nil(t, s.strip)
	assert.Equal(t, face, s.renderer.Face, "font untouched when unchanged")
	assert.Equal(t, uint8(10), s.renderer.Text.R)

	next.FontSize = 8
	require.NoError(t, s.ApplyConfig(next))
	assert.Equal(t, 8, s.renderer.FontSize)
}
