package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/pga-leaderboard/app/host"
	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/display"
	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/infrastructure/matrix"
	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard"
	leaderboardrouter "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/eventbus"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Modules holds all application modules.
type Modules struct {
	Leaderboard *leaderboard.Module
	Display     *display.Module
}

// App holds the application components.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	EventBus      *eventbus.EventBus
	Modules       Modules
	Framebuffer   *matrix.Framebuffer
	Plugin        *LeaderboardPlugin
	Router        chi.Router
	Runner        *host.Runner
	natsConn      *nats.Conn
}

// Options override production collaborators, mainly for tests.
type Options struct {
	// Deps are passed through to the leaderboard module.
	Leaderboard leaderboard.Deps
	// Matrices receive frames in addition to the framebuffer.
	Matrices []matrix.Matrix
	// DisableEvents skips the event bus entirely.
	DisableEvents bool
	// UpdateTick overrides how often the host calls Update.
	UpdateTick time.Duration
}

// NewApp wires every module. A configured NATS url adds a frame sink and
// event forwarding; without it the app runs standalone.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability, opts Options) (*App, error) {
	logger := obs.Provider.Logger

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	app := &App{
		Config:        cfg,
		Observability: obs,
		Framebuffer:   matrix.NewFramebuffer(cfg.Matrix.Width, cfg.Matrix.Height),
	}

	if !opts.DisableEvents {
		bus, err := eventbus.NewEventBus(logger, obs.Registry.Prometheus)
		if err != nil {
			return nil, err
		}
		app.EventBus = bus
	}

	sinks := matrix.Multi{app.Framebuffer}
	sinks = append(sinks, opts.Matrices...)

	deps := opts.Leaderboard
	if cfg.NATS.URL != "" {
		conn, err := eventbus.ConnectNATS(cfg.NATS.URL, "pga-leaderboard", logger)
		if err != nil {
			app.closeEventBus()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		app.natsConn = conn
		sinks = append(sinks, matrix.NewNATSMatrix(conn, cfg.Matrix.NATSSubject, cfg.Matrix.Width, cfg.Matrix.Height, logger))
		if deps.Forward == nil {
			deps.Forward = leaderboardrouter.EventPublisher(conn)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if obs.Registry.Prometheus != nil {
		r.Handle("/metrics", promhttp.HandlerFor(obs.Registry.Prometheus, promhttp.HandlerOpts{}))
	}
	app.Router = r

	deps.EventBus = app.EventBus
	deps.HTTPRouter = r
	if deps.Frames == nil {
		deps.Frames = app.Framebuffer
	}

	lb, err := leaderboard.NewLeaderboardModule(ctx, cfg, obs, deps)
	if err != nil {
		app.closeConnections()
		return nil, fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}
	app.Modules.Leaderboard = lb

	disp, err := display.NewDisplayModule(ctx, cfg, obs, sinks, lb.LeaderboardService, app.EventBus)
	if err != nil {
		app.closeConnections()
		return nil, fmt.Errorf("failed to initialize display module: %w", err)
	}
	app.Modules.Display = disp

	app.Plugin = NewLeaderboardPlugin(cfg.Plugin, lb.LeaderboardService, disp.DisplayService, logger)
	r.Get("/api/plugin/info", func(w http.ResponseWriter, _ *http.Request) {
		writePluginInfo(w, app.Plugin.Info())
	})

	app.Runner = host.NewRunner(app.Plugin, logger, host.WithUpdateTick(opts.UpdateTick))

	logger.InfoContext(ctx, "Application initialized",
		attr.String("plugin_id", cfg.Plugin.ID),
		attr.Bool("nats", app.natsConn != nil),
		attr.Bool("events", app.EventBus != nil),
	)
	return app, nil
}

// Run starts the event router, the HTTP server and the plugin host, and
// blocks until ctx is cancelled or one of them fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Provider.Logger
	g, gctx := errgroup.WithContext(ctx)

	if bus := app.EventBus; bus != nil {
		g.Go(func() error {
			if err := bus.Run(gctx); err != nil {
				return fmt.Errorf("event router stopped: %w", err)
			}
			return nil
		})
		select {
		case <-bus.Running():
		case <-gctx.Done():
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go app.Modules.Leaderboard.Run(gctx, &wg)
	go app.Modules.Display.Run(gctx, &wg)

	if app.Config.HTTP.Address != "" {
		srv := &http.Server{
			Addr:              app.Config.HTTP.Address,
			Handler:           app.Router,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("HTTP server listening", attr.String("address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown failed", attr.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		return app.Runner.Run(gctx)
	})

	err := g.Wait()
	app.Close()
	wg.Wait()
	logger.Info("Application stopped")
	return err
}

// Close releases every module and connection. It is safe to call once.
func (app *App) Close() {
	logger := app.Observability.Provider.Logger
	if app.Modules.Display != nil {
		if err := app.Modules.Display.Close(); err != nil {
			logger.Error("Failed to close display module", attr.Error(err))
		}
	}
	if app.Modules.Leaderboard != nil {
		if err := app.Modules.Leaderboard.Close(); err != nil {
			logger.Error("Failed to close leaderboard module", attr.Error(err))
		}
	}
	app.closeConnections()
}

func (app *App) closeConnections() {
	app.closeEventBus()
	if app.natsConn != nil {
		if err := app.natsConn.Drain(); err != nil {
			app.natsConn.Close()
		}
		app.natsConn = nil
	}
}

func (app *App) closeEventBus() {
	if app.EventBus == nil {
		return
	}
	if err := app.EventBus.Close(); err != nil {
		app.Observability.Provider.Logger.Error("Failed to close event bus", attr.Error(err))
	}
	app.EventBus = nil
}
