package espn

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/cache"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability"
	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
)

// Query selects one feed request and how long its parsed result is cached.
type Query struct {
	// Dates is an optional YYYYMMDD filter.
	Dates    string
	CacheKey string
	CacheTTL time.Duration
	// Refresh skips the cached entry. The fetched result is still stored.
	Refresh bool
}

// Feed returns parsed events.
type Feed interface {
	Events(ctx context.Context, q Query) ([]Event, error)
}

// CachedFeed parses fetched bodies and keeps the result for the query TTL.
type CachedFeed struct {
	fetcher Fetcher
	cache   *cache.TTLCache[[]Event]
	metrics observability.LeaderboardMetrics
	logger  *slog.Logger
}

var _ Feed = (*CachedFeed)(nil)

func NewCachedFeed(fetcher Fetcher, store *cache.TTLCache[[]Event], metrics observability.LeaderboardMetrics, logger *slog.Logger) *CachedFeed {
	if store == nil {
		store = cache.New[[]Event]()
	}
	if metrics == nil {
		metrics = observability.NoOpLeaderboardMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedFeed{fetcher: fetcher, cache: store, metrics: metrics, logger: logger}
}

// Events serves q from cache when fresh and not a refresh, otherwise fetches
// and parses it. Failed fetches are never cached.
func (f *CachedFeed) Events(ctx context.Context, q Query) ([]Event, error) {
	if q.CacheKey != "" && !q.Refresh {
		if events, ok := f.cache.Get(q.CacheKey); ok {
			f.metrics.RecordCacheHit(ctx, q.CacheKey)
			f.logger.DebugContext(ctx, "Feed served from cache",
				attr.ExtractCorrelationID(ctx),
				attr.String("cache_key", q.CacheKey),
			)
			return events, nil
		}
		f.metrics.RecordCacheMiss(ctx, q.CacheKey)
	}

	body, err := f.fetcher.Fetch(ctx, q.Dates)
	if err != nil {
		return nil, err
	}

	sb, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	if q.CacheKey != "" {
		f.cache.Set(q.CacheKey, sb.Events, q.CacheTTL)
	}
	return sb.Events, nil
}

// Purge drops every cached response.
func (f *CachedFeed) Purge() {
	f.cache.Purge()
}
