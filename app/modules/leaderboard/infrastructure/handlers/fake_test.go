package leaderboardhandlers

import (
	"context"

	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/infrastructure/matrix"
	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
)

// ------------------------
// Fake Leaderboard Service
// ------------------------

type FakeLeaderboardService struct {
	trace []string

	UpdateFunc      func(ctx context.Context) (leaderboardservice.UpdateOutcome, error)
	ForceUpdateFunc func(ctx context.Context) (leaderboardservice.UpdateOutcome, error)
	SnapshotFunc    func() leaderboardservice.Snapshot
	InfoFunc        func() leaderboardservice.Info
	ApplyConfigFunc func(cfg config.PluginConfig) error
}

func NewFakeLeaderboardService() *FakeLeaderboardService {
	return &FakeLeaderboardService{
		trace: []string{},
	}
}

func (f *FakeLeaderboardService) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeLeaderboardService) Update(ctx context.Context) (leaderboardservice.UpdateOutcome, error) {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx)
	}
	return leaderboardservice.OutcomeNoData, nil
}

func (f *FakeLeaderboardService) ForceUpdate(ctx context.Context) (leaderboardservice.UpdateOutcome, error) {
	f.record("ForceUpdate")
	if f.ForceUpdateFunc != nil {
		return f.ForceUpdateFunc(ctx)
	}
	return leaderboardservice.OutcomeNoData, nil
}

func (f *FakeLeaderboardService) Snapshot() leaderboardservice.Snapshot {
	f.record("Snapshot")
	if f.SnapshotFunc != nil {
		return f.SnapshotFunc()
	}
	return leaderboardservice.Snapshot{}
}

func (f *FakeLeaderboardService) Info() leaderboardservice.Info {
	f.record("Info")
	if f.InfoFunc != nil {
		return f.InfoFunc()
	}
	return leaderboardservice.Info{}
}

func (f *FakeLeaderboardService) ApplyConfig(cfg config.PluginConfig) error {
	f.record("ApplyConfig")
	if f.ApplyConfigFunc != nil {
		return f.ApplyConfigFunc(cfg)
	}
	return nil
}

func (f *FakeLeaderboardService) Reset() {
	f.record("Reset")
}

// --- Accessors for assertions ---

func (f *FakeLeaderboardService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// ------------------------
// Fake Frame Source
// ------------------------

type FakeFrameSource struct {
	PNGFunc func() ([]byte, error)
}

func (f *FakeFrameSource) PNG() ([]byte, error) {
	if f.PNGFunc != nil {
		return f.PNGFunc()
	}
	return nil, matrix.ErrNoFrame
}

// Ensure the fakes actually satisfy the interfaces
var (
	_ leaderboardservice.Service = (*FakeLeaderboardService)(nil)
	_ FrameSource                = (*FakeFrameSource)(nil)
)
