package displayservice

import (
	"context"
	"image"
	"sync"

	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/infrastructure/matrix"
	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability"
)

// ------------------------
// Fake Snapshot Source
// ------------------------

type FakeSnapshotSource struct {
	SnapshotFunc func() leaderboardservice.Snapshot
}

func (f *FakeSnapshotSource) Snapshot() leaderboardservice.Snapshot {
	if f.SnapshotFunc != nil {
		return f.SnapshotFunc()
	}
	return leaderboardservice.Snapshot{}
}

// ------------------------
// Fake Matrix
// ------------------------

type FakeMatrix struct {
	*matrix.Framebuffer
	trace []string

	ShowFunc func(ctx context.Context, img image.Image) error
}

func NewFakeMatrix(w, h int) *FakeMatrix {
	return &FakeMatrix{Framebuffer: matrix.NewFramebuffer(w, h), trace: []string{}}
}

func (f *FakeMatrix) Clear(ctx context.Context) error {
	f.trace = append(f.trace, "Clear")
	return f.Framebuffer.Clear(ctx)
}

func (f *FakeMatrix) Show(ctx context.Context, img image.Image) error {
	f.trace = append(f.trace, "Show")
	if f.ShowFunc != nil {
		if err := f.ShowFunc(ctx, img); err != nil {
			return err
		}
	}
	return f.Framebuffer.Show(ctx, img)
}

func (f *FakeMatrix) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// ------------------------
// Fake Display Metrics
// ------------------------

type FakeDisplayMetrics struct {
	mu       sync.Mutex
	Rendered []string
	Failures []string
}

func (m *FakeDisplayMetrics) RecordFrameRendered(_ context.Context, mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rendered = append(m.Rendered, mode)
}

func (m *FakeDisplayMetrics) RecordRenderFailure(_ context.Context, mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures = append(m.Failures, mode)
}

// Interface assertions
var (
	_ SnapshotSource               = (*FakeSnapshotSource)(nil)
	_ matrix.Matrix                = (*FakeMatrix)(nil)
	_ observability.DisplayMetrics = (*FakeDisplayMetrics)(nil)
)
