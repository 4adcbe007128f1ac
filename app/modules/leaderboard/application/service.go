package leaderboardservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/espn"
	"github.com/Black-And-White-Club/pga-leaderboard/config"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "LeaderboardService"

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	feed        espn.Feed
	publisher   message.Publisher
	logger      *slog.Logger
	metrics     observability.LeaderboardMetrics
	tracer      trace.Tracer
	now         func() time.Time
	previousTTL time.Duration

	// updateMu serialises updates; mu guards the fields below.
	updateMu            sync.Mutex
	mu                  sync.RWMutex
	cfg                 config.PluginConfig
	current             *Tournament
	leaderboard         []Player
	previous            *Tournament
	previousLeaderboard []Player
	lastUpdate          time.Time
}

var _ Service = (*LeaderboardService)(nil)

// Option configures a LeaderboardService.
type Option func(*LeaderboardService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *LeaderboardService) { s.now = now }
}

// WithPreviousCacheTTL sets how long fallback lookups are cached.
func WithPreviousCacheTTL(ttl time.Duration) Option {
	return func(s *LeaderboardService) { s.previousTTL = ttl }
}

// NewLeaderboardService creates a new LeaderboardService. publisher may be nil.
func NewLeaderboardService(
	cfg config.PluginConfig,
	feed espn.Feed,
	publisher message.Publisher,
	logger *slog.Logger,
	metrics observability.LeaderboardMetrics,
	tracer trace.Tracer,
	opts ...Option,
) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoOpLeaderboardMetrics{}
	}
	s := &LeaderboardService{
		cfg:         cfg,
		feed:        feed,
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
		now:         time.Now,
		previousTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger.Info("PGA Tour leaderboard service initialized", attr.String("plugin_id", cfg.ID))
	return s
}

// Update fetches tournament data, honouring the update interval.
func (s *LeaderboardService) Update(ctx context.Context) (UpdateOutcome, error) {
	return s.update(ctx, "Update", false)
}

// ForceUpdate fetches tournament data immediately.
func (s *LeaderboardService) ForceUpdate(ctx context.Context) (UpdateOutcome, error) {
	return s.update(ctx, "ForceUpdate", true)
}

func (s *LeaderboardService) update(ctx context.Context, operation string, force bool) (UpdateOutcome, error) {
	if attr.CorrelationIDFrom(ctx) == "" {
		ctx = attr.WithCorrelationID(ctx, uuid.NewString())
	}

	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	cfg := s.settings()
	result, err := withTelemetry(s, ctx, operation, cfg.ID, func(ctx context.Context) (results.OperationResult[UpdateOutcome, error], error) {
		return s.updateLogic(ctx, cfg, force)
	})
	if err != nil {
		return "", err
	}
	if result.IsFailure() {
		return "", *result.Failure
	}
	return *result.Success, nil
}

func (s *LeaderboardService) updateLogic(ctx context.Context, cfg config.PluginConfig, force bool) (results.OperationResult[UpdateOutcome, error], error) {
	now := s.now()

	s.mu.RLock()
	last := s.lastUpdate
	s.mu.RUnlock()

	if !force && !last.IsZero() {
		if since := now.Sub(last); since < cfg.UpdateInterval() {
			s.logger.DebugContext(ctx, "Skipping update",
				attr.ExtractCorrelationID(ctx),
				attr.Duration("since_last_update", since),
			)
			return results.SuccessResult[UpdateOutcome, error](OutcomeSkipped), nil
		}
	}

	events, err := s.feed.Events(ctx, espn.Query{
		CacheKey: cfg.ID + "_pga_leaderboard",
		CacheTTL: cfg.UpdateInterval(),
		Refresh:  force,
	})
	if err != nil {
		s.metrics.RecordFetch(ctx, "current", "error")
		s.logger.WarnContext(ctx, "Failed to fetch PGA Tour data",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
		return results.OperationResult[UpdateOutcome, error]{}, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	s.metrics.RecordFetch(ctx, "current", "ok")

	current, players := selectCurrent(events, now, cfg)
	if current == nil {
		s.logger.InfoContext(ctx, "No tournaments found within date range",
			attr.ExtractCorrelationID(ctx),
			attr.Int("tournament_date_range", cfg.TournamentDateRange),
		)
	}

	s.mu.Lock()
	s.current = current
	s.leaderboard = players
	s.mu.Unlock()

	if (current == nil || len(players) == 0) && cfg.FallbackPlayers > 0 {
		s.logger.InfoContext(ctx, "No current leaderboard, fetching previous tournament as fallback",
			attr.ExtractCorrelationID(ctx),
		)
		s.fetchPreviousTournament(ctx, now, cfg)
	}

	// the interval runs from when the data arrived, so the next gate opens
	// after the cached copy has expired
	updated := s.now()
	s.mu.Lock()
	s.lastUpdate = updated
	s.mu.Unlock()

	outcome := s.outcome()
	snap := s.Snapshot()
	s.metrics.SetPlayersDisplayed(ctx, len(snap.Players))

	switch outcome {
	case OutcomeCurrent:
		s.logger.InfoContext(ctx, "Updated PGA Tour data",
			attr.ExtractCorrelationID(ctx),
			attr.String("tournament", snap.Tournament.Name),
			attr.Int("players", len(snap.Players)),
		)
	case OutcomePrevious:
		s.logger.InfoContext(ctx, "Using previous tournament",
			attr.ExtractCorrelationID(ctx),
			attr.String("tournament", snap.Tournament.Name),
			attr.Int("players", len(snap.Players)),
		)
	default:
		s.logger.InfoContext(ctx, "No active or previous tournaments found", attr.ExtractCorrelationID(ctx))
	}

	s.publishRefreshed(ctx, cfg, outcome, snap, updated)
	return results.SuccessResult[UpdateOutcome, error](outcome), nil
}

func (s *LeaderboardService) outcome() UpdateOutcome {
	snap := s.Snapshot()
	switch {
	case snap.Empty():
		return OutcomeNoData
	case snap.IsPrevious:
		return OutcomePrevious
	default:
		return OutcomeCurrent
	}
}

func (s *LeaderboardService) publishRefreshed(ctx context.Context, cfg config.PluginConfig, outcome UpdateOutcome, snap Snapshot, now time.Time) {
	if s.publisher == nil {
		return
	}

	payload := RefreshedPayloadV1{
		PluginID:    cfg.ID,
		Outcome:     outcome,
		IsPrevious:  snap.IsPrevious,
		PlayerCount: len(snap.Players),
		UpdatedAt:   now.UTC(),
	}
	if snap.Tournament != nil {
		payload.Tournament = snap.Tournament.Name
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal refreshed event", attr.Error(err))
		return
	}

	msg := message.NewMessage(uuid.NewString(), body)
	msg.Metadata.Set("correlation_id", attr.CorrelationIDFrom(ctx))
	msg.Metadata.Set("topic", LeaderboardRefreshedV1)

	if err := s.publisher.Publish(LeaderboardRefreshedV1, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish refreshed event",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
	}
}

// Snapshot returns the current tournament when it has players, otherwise the
// fallback tournament when it has players, otherwise an empty snapshot.
func (s *LeaderboardService) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var updated *time.Time
	if !s.lastUpdate.IsZero() {
		t := s.lastUpdate
		updated = &t
	}

	switch {
	case s.current != nil && len(s.leaderboard) > 0:
		t := *s.current
		return Snapshot{Tournament: &t, Players: clonePlayers(s.leaderboard), UpdatedAt: updated}
	case s.previous != nil && len(s.previousLeaderboard) > 0:
		t := *s.previous
		return Snapshot{Tournament: &t, Players: clonePlayers(s.previousLeaderboard), IsPrevious: true, UpdatedAt: updated}
	default:
		return Snapshot{UpdatedAt: updated}
	}
}

// Info reports plugin state.
func (s *LeaderboardService) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := Info{
		PluginID:             s.cfg.ID,
		Enabled:              s.cfg.Enabled,
		DisplayMode:          s.cfg.DisplayMode,
		PlayersCount:         len(s.leaderboard),
		PreviousPlayersCount: len(s.previousLeaderboard),
	}
	if s.current != nil {
		name := s.current.Name
		info.CurrentTournament = &name
	}
	if s.previous != nil {
		name := s.previous.Name
		info.PreviousTournament = &name
	}
	if !s.lastUpdate.IsZero() {
		ts := s.lastUpdate.Format(time.RFC3339)
		info.LastUpdate = &ts
	}
	return info
}

// ApplyConfig validates cfg and swaps it in. The next Update runs regardless
// of the interval so new limits apply straight away.
func (s *LeaderboardService) ApplyConfig(cfg config.PluginConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid plugin config: %w", err)
	}

	s.mu.Lock()
	s.cfg = cfg
	s.lastUpdate = time.Time{}
	s.mu.Unlock()

	s.logger.Info("Configuration updated, reloading settings", attr.String("plugin_id", cfg.ID))
	return nil
}

// Reset clears all tournament state.
func (s *LeaderboardService) Reset() {
	s.mu.Lock()
	s.current = nil
	s.leaderboard = nil
	s.previous = nil
	s.previousLeaderboard = nil
	s.mu.Unlock()

	s.logger.Info("PGA Tour leaderboard state cleaned up")
}

func (s *LeaderboardService) settings() config.PluginConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func clonePlayers(in []Player) []Player {
	out := make([]Player, len(in))
	copy(out, in)
	return out
}

// -----------------------------------------------------------------------------
// Generic helpers
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.DebugContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}
