package leaderboardrouter

import (
	"context"
)

// Router registers the leaderboard event handlers on a watermill router.
type Router interface {
	Configure(ctx context.Context) error
	Close() error
}

// EventPublisher sends raw payloads to an external subject. *nats.Conn
// satisfies it.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}
