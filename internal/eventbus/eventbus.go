// Package eventbus wires the in-process watermill pub/sub and router.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
)

// EventBus bundles a gochannel pub/sub with the router handlers run on.
type EventBus struct {
	pubSub *gochannel.GoChannel
	Router *message.Router
	logger *slog.Logger
}

var (
	_ message.Publisher  = (*EventBus)(nil)
	_ message.Subscriber = (*EventBus)(nil)
)

// NewEventBus creates the pub/sub and router. registry may be nil.
func NewEventBus(logger *slog.Logger, registry *prometheus.Registry) (*EventBus, error) {
	wlogger := watermill.NewSlogLogger(logger)

	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, wlogger)

	router, err := message.NewRouter(message.RouterConfig{}, wlogger)
	if err != nil {
		_ = pubSub.Close()
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}

	if registry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "pga_leaderboard", "events")
		builder.AddPrometheusRouterMetrics(router)
	}

	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	return &EventBus{pubSub: pubSub, Router: router, logger: logger}, nil
}

// Publish implements message.Publisher.
func (eb *EventBus) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
	}
	return eb.pubSub.Publish(topic, msgs...)
}

// Subscribe implements message.Subscriber.
func (eb *EventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return eb.pubSub.Subscribe(ctx, topic)
}

// Run blocks running the router until ctx ends.
func (eb *EventBus) Run(ctx context.Context) error {
	eb.logger.InfoContext(ctx, "Starting event router")
	return eb.Router.Run(ctx)
}

// Running is closed once the router handlers are up.
func (eb *EventBus) Running() chan struct{} {
	return eb.Router.Running()
}

// Close stops the router and the pub/sub.
func (eb *EventBus) Close() error {
	routerErr := eb.Router.Close()
	if err := eb.pubSub.Close(); err != nil {
		return err
	}
	return routerErr
}
