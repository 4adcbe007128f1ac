package eventbus

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
	"github.com/nats-io/nats.go"
)

// ConnectNATS dials url with reconnect handling. Connection errors after the
// initial dial are logged, not returned.
func ConnectNATS(url, name string, logger *slog.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name(name),
		nats.RetryOnFailedConnect(true),
		nats.Timeout(10 * time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				logger.Error("Error in subscription", attr.String("subject", s.Subject), attr.Error(err))
				return
			}
			logger.Error("Error in connection", attr.Error(err))
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("Disconnected from NATS", attr.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("Reconnected to NATS", attr.String("url", c.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(url, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Connected to NATS", attr.String("url", url))
	return nc, nil
}
