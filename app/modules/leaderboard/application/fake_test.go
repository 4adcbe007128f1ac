package leaderboardservice

import (
	"context"
	"sync"

	"github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/infrastructure/espn"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ------------------------
// Fake Feed
// ------------------------

type FakeFeed struct {
	mu    sync.Mutex
	trace []string

	EventsFunc func(ctx context.Context, q espn.Query) ([]espn.Event, error)
}

func NewFakeFeed() *FakeFeed {
	return &FakeFeed{trace: []string{}}
}

func (f *FakeFeed) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeFeed) Events(ctx context.Context, q espn.Query) ([]espn.Event, error) {
	step := "Events"
	if q.Dates != "" {
		step += ":" + q.Dates
	}
	f.record(step)
	if f.EventsFunc != nil {
		return f.EventsFunc(ctx, q)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeFeed) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// ------------------------
// Fake Fetcher
// ------------------------

type FakeFetcher struct {
	mu    sync.Mutex
	trace []string

	FetchFunc func(ctx context.Context, dates string) ([]byte, error)
}

var _ espn.Fetcher = (*FakeFetcher)(nil)

func (f *FakeFetcher) Fetch(ctx context.Context, dates string) ([]byte, error) {
	f.mu.Lock()
	f.trace = append(f.trace, "Fetch:"+dates)
	f.mu.Unlock()
	if f.FetchFunc != nil {
		return f.FetchFunc(ctx, dates)
	}
	return []byte(`{"events":[]}`), nil
}

func (f *FakeFetcher) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu       sync.Mutex
	Topics   []string
	Messages []*message.Message

	PublishFunc func(topic string, msgs ...*message.Message) error
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	p.Topics = append(p.Topics, topic)
	p.Messages = append(p.Messages, msgs...)
	p.mu.Unlock()
	if p.PublishFunc != nil {
		return p.PublishFunc(topic, msgs...)
	}
	return nil
}

func (p *FakePublisher) Close() error { return nil }

// Interface assertions
var (
	_ espn.Feed         = (*FakeFeed)(nil)
	_ message.Publisher = (*FakePublisher)(nil)
)
