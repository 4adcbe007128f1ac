package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pga_leaderboard"

// LeaderboardMetrics records leaderboard refresh activity.
type LeaderboardMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
	RecordFetch(ctx context.Context, source, outcome string)
	RecordCacheHit(ctx context.Context, key string)
	RecordCacheMiss(ctx context.Context, key string)
	SetPlayersDisplayed(ctx context.Context, count int)
}

// DisplayMetrics records frame rendering.
type DisplayMetrics interface {
	RecordFrameRendered(ctx context.Context, mode string)
	RecordRenderFailure(ctx context.Context, mode string)
}

type prometheusLeaderboardMetrics struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	fetches   *prometheus.CounterVec
	cacheHits prometheus.Counter
	cacheMiss prometheus.Counter
	players   prometheus.Gauge
}

// NewPrometheusLeaderboardMetrics registers the leaderboard instruments on reg.
func NewPrometheusLeaderboardMetrics(reg prometheus.Registerer) LeaderboardMetrics {
	f := promauto.With(reg)
	return &prometheusLeaderboardMetrics{
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, []string{"operation", "service"}),
		successes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Service operations that completed without error.",
		}, []string{"operation", "service"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Service operations that returned an error.",
		}, []string{"operation", "service"}),
		durations: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		fetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Feed fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Feed responses served from cache.",
		}),
		cacheMiss: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Feed requests that missed the cache.",
		}),
		players: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_displayed",
			Help:      "Players in the leaderboard currently on display.",
		}),
	}
}

func (m *prometheusLeaderboardMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *prometheusLeaderboardMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *prometheusLeaderboardMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *prometheusLeaderboardMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.durations.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *prometheusLeaderboardMetrics) RecordFetch(_ context.Context, source, outcome string) {
	m.fetches.WithLabelValues(source, outcome).Inc()
}

func (m *prometheusLeaderboardMetrics) RecordCacheHit(context.Context, string) { m.cacheHits.Inc() }

func (m *prometheusLeaderboardMetrics) RecordCacheMiss(context.Context, string) { m.cacheMiss.Inc() }

func (m *prometheusLeaderboardMetrics) SetPlayersDisplayed(_ context.Context, count int) {
	m.players.Set(float64(count))
}

type prometheusDisplayMetrics struct {
	frames   *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewPrometheusDisplayMetrics registers the display instruments on reg.
func NewPrometheusDisplayMetrics(reg prometheus.Registerer) DisplayMetrics {
	f := promauto.With(reg)
	return &prometheusDisplayMetrics{
		frames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      "Frames pushed to the matrix.",
		}, []string{"mode"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_failures_total",
			Help:      "Frames that fell back to the error screen.",
		}, []string{"mode"}),
	}
}

func (m *prometheusDisplayMetrics) RecordFrameRendered(_ context.Context, mode string) {
	m.frames.WithLabelValues(mode).Inc()
}

func (m *prometheusDisplayMetrics) RecordRenderFailure(_ context.Context, mode string) {
	m.failures.WithLabelValues(mode).Inc()
}

// NoOpLeaderboardMetrics discards everything.
type NoOpLeaderboardMetrics struct{}

func (NoOpLeaderboardMetrics) RecordOperationAttempt(context.Context, string, string) {}
func (NoOpLeaderboardMetrics) RecordOperationSuccess(context.Context, string, string) {}
func (NoOpLeaderboardMetrics) RecordOperationFailure(context.Context, string, string) {}
func (NoOpLeaderboardMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {
}
func (NoOpLeaderboardMetrics) RecordFetch(context.Context, string, string) {}
func (NoOpLeaderboardMetrics) RecordCacheHit(context.Context, string)      {}
func (NoOpLeaderboardMetrics) RecordCacheMiss(context.Context, string)     {}
func (NoOpLeaderboardMetrics) SetPlayersDisplayed(context.Context, int)    {}

// NoOpDisplayMetrics discards everything.
type NoOpDisplayMetrics struct{}

func (NoOpDisplayMetrics) RecordFrameRendered(context.Context, string) {}
func (NoOpDisplayMetrics) RecordRenderFailure(context.Context, string) {}
