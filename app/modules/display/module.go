package display

import (
	"context"
	"fmt"
	"sync"

	displayservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/application"
	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/infrastructure/matrix"
	displayrouter "github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/infrastructure/router"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/eventbus"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability"
)

// Module represents the display module.
type Module struct {
	DisplayService displayservice.Service
	DisplayRouter  *displayrouter.DisplayRouter
	Matrix         matrix.Matrix
	cancelFunc     context.CancelFunc
	observability  observability.Observability
}

// NewDisplayModule creates and initializes a new display module. bus may be nil.
func NewDisplayModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	mx matrix.Matrix,
	source displayservice.SnapshotSource,
	bus *eventbus.EventBus,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "display.NewDisplayModule initializing")

	service := displayservice.NewDisplayService(cfg.Plugin, mx, source, logger, obs.Registry.DisplayMetrics, tracer)

	module := &Module{
		DisplayService: service,
		Matrix:         mx,
		observability:  obs,
	}

	if bus != nil {
		module.DisplayRouter = displayrouter.NewDisplayRouter(logger, bus.Router, bus, service, tracer)
		if err := module.DisplayRouter.Configure(ctx); err != nil {
			return nil, fmt.Errorf("failed to configure display router: %w", err)
		}
	}

	return module, nil
}

// Run starts the display module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting display module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Display module goroutine stopped")
}

// Close blanks the panel and shuts the module down.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping display module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if err := m.Matrix.Clear(context.Background()); err != nil {
		logger.Warn("Failed to clear matrix on shutdown", "error", err)
	}

	logger.Info("Display module stopped")
	return nil
}
