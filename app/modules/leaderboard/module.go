package leaderboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/cache"
	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/espn"
	leaderboardhandlers "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/handlers"
	leaderboardrouter "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/eventbus"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// refreshEvery paces manual refreshes per client.
const refreshEvery = 10 * time.Second

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	Feed               *espn.CachedFeed
	config             *config.Config
	cancelFunc         context.CancelFunc
	observability      observability.Observability
}

// Deps are the optional collaborators of the module. Any field may be nil.
type Deps struct {
	EventBus   *eventbus.EventBus
	HTTPRouter chi.Router
	Forward    leaderboardrouter.EventPublisher
	Frames     leaderboardhandlers.FrameSource
	Fetcher    espn.Fetcher
}

// NewLeaderboardModule creates a new instance of the Leaderboard module.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	deps Deps,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule initializing")

	// 1. Feed client
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = espn.NewHTTPClient(espn.ClientConfig{
			BaseURL:           cfg.ESPN.BaseURL,
			Timeout:           cfg.ESPN.Timeout,
			RequestsPerSecond: cfg.ESPN.RequestsPerSecond,
			MaxRetries:        cfg.ESPN.MaxRetries,
		}, nil, logger)
	}
	feed := espn.NewCachedFeed(fetcher, cache.New[[]espn.Event](), obs.Registry.LeaderboardMetrics, logger)

	// 2. Service
	var publisher message.Publisher
	if deps.EventBus != nil {
		publisher = deps.EventBus
	}
	service := leaderboardservice.NewLeaderboardService(cfg.Plugin, feed, publisher, logger,
		obs.Registry.LeaderboardMetrics, tracer,
		leaderboardservice.WithPreviousCacheTTL(cfg.ESPN.PreviousCacheTTL),
	)

	// 3. HTTP routes
	if deps.HTTPRouter != nil {
		handlers := leaderboardhandlers.NewLeaderboardHandlers(service, deps.Frames,
			leaderboardservice.DefaultChartPalette, logger, tracer)
		limiter := leaderboardhandlers.NewIPRateLimiter(rate.Every(refreshEvery), 3)
		leaderboardhandlers.RegisterRoutes(deps.HTTPRouter, handlers, limiter)
	}

	module := &Module{
		LeaderboardService: service,
		Feed:               feed,
		config:             cfg,
		observability:      obs,
	}

	// 4. Event router
	if deps.EventBus != nil {
		module.LeaderboardRouter = leaderboardrouter.NewLeaderboardRouter(
			logger,
			deps.EventBus.Router,
			deps.EventBus,
			deps.Forward,
			cfg.Matrix.NATSSubject,
			tracer,
		)
		if err := module.LeaderboardRouter.Configure(ctx); err != nil {
			return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
		}
	}

	return module, nil
}

// Run starts the leaderboard module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close shuts down the leaderboard module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping leaderboard module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	m.LeaderboardService.Reset()
	m.Feed.Purge()

	logger.Info("Leaderboard module stopped")
	return nil
}
