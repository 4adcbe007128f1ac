package displayrouter

import (
	"context"
	"encoding/json"
	"log/slog"

	displayservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/display/application"
	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/trace"
)

// DisplayRouter restarts the ticker whenever the leaderboard is refreshed.
type DisplayRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	service    displayservice.Service
	tracer     trace.Tracer
}

// NewDisplayRouter creates a new instance of the router.
func NewDisplayRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	service displayservice.Service,
	tracer trace.Tracer,
) *DisplayRouter {
	return &DisplayRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		service:    service,
		tracer:     tracer,
	}
}

// Configure registers the refreshed handler.
func (r *DisplayRouter) Configure(ctx context.Context) error {
	r.Router.AddNoPublisherHandler(
		"display."+leaderboardservice.LeaderboardRefreshedV1,
		leaderboardservice.LeaderboardRefreshedV1,
		r.subscriber,
		r.HandleRefreshed,
	)
	r.logger.InfoContext(ctx, "Registered display event handlers")
	return nil
}

// HandleRefreshed resets the scroll so fresh data starts from the beginning.
// Skipped updates never publish, so every event carries new data.
func (r *DisplayRouter) HandleRefreshed(msg *message.Message) error {
	ctx, span := r.tracer.Start(msg.Context(), "DisplayRouter.HandleRefreshed")
	defer span.End()

	var payload leaderboardservice.RefreshedPayloadV1
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		// a bad payload will never parse; ack it
		r.logger.WarnContext(ctx, "Dropping malformed refreshed event",
			attr.CorrelationID(middleware.MessageCorrelationID(msg)),
			attr.Error(err),
		)
		return nil
	}

	r.service.ResetScroll()
	r.logger.DebugContext(ctx, "Scroll reset after refresh",
		attr.CorrelationID(middleware.MessageCorrelationID(msg)),
		attr.String("outcome", string(payload.Outcome)),
		attr.Int("players", payload.PlayerCount),
	)
	return nil
}

// Close stops the router and cleans up resources.
func (r *DisplayRouter) Close() error {
	return r.Router.Close()
}
