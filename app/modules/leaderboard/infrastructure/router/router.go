package leaderboardrouter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardRouter forwards refreshed events to NATS so the panel driver and
// other listeners see them.
type LeaderboardRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	forward    EventPublisher
	subject    string
	tracer     trace.Tracer
}

var _ Router = (*LeaderboardRouter)(nil)

// NewLeaderboardRouter creates a new instance of the router. forward may be
// nil, in which case Configure registers nothing.
func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	forward EventPublisher,
	subject string,
	tracer trace.Tracer,
) *LeaderboardRouter {
	return &LeaderboardRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		forward:    forward,
		subject:    subject,
		tracer:     tracer,
	}
}

// Configure registers the forwarding handler.
func (r *LeaderboardRouter) Configure(ctx context.Context) error {
	if r.forward == nil {
		r.logger.InfoContext(ctx, "NATS not configured, leaderboard events stay in process")
		return nil
	}

	retry := middleware.Retry{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
	}

	h := r.Router.AddNoPublisherHandler(
		"leaderboard.forward."+leaderboardservice.LeaderboardRefreshedV1,
		leaderboardservice.LeaderboardRefreshedV1,
		r.subscriber,
		r.HandleRefreshed,
	)
	h.AddMiddleware(retry.Middleware)

	r.logger.InfoContext(ctx, "Registered leaderboard event forwarder", attr.String("subject", r.Subject()))
	return nil
}

// Subject is where refreshed events are forwarded.
func (r *LeaderboardRouter) Subject() string {
	return r.subject + ".events"
}

// HandleRefreshed forwards the payload unchanged.
func (r *LeaderboardRouter) HandleRefreshed(msg *message.Message) error {
	ctx, span := r.tracer.Start(msg.Context(), "LeaderboardRouter.HandleRefreshed",
		trace.WithAttributes(attribute.String("message.uuid", msg.UUID)),
	)
	defer span.End()

	correlationID := middleware.MessageCorrelationID(msg)
	if err := r.forward.Publish(r.Subject(), msg.Payload); err != nil {
		span.RecordError(err)
		r.logger.WarnContext(ctx, "Failed to forward leaderboard event",
			attr.CorrelationID(correlationID),
			attr.Error(err),
		)
		return fmt.Errorf("failed to forward to %s: %w", r.Subject(), err)
	}

	r.logger.DebugContext(ctx, "Forwarded leaderboard event",
		attr.CorrelationID(correlationID),
		attr.String("subject", r.Subject()),
	)
	return nil
}

// Close stops the router and cleans up resources.
func (r *LeaderboardRouter) Close() error {
	return r.Router.Close()
}
