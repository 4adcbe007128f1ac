package matrix

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/Black-And-White-Club/pga-leaderboard/internal/observability/attr"
)

// Conn publishes raw payloads. *nats.Conn satisfies it.
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSMatrix publishes every frame as a PNG to a subject an external panel
// driver listens on.
type NATSMatrix struct {
	conn    Conn
	subject string
	width   int
	height  int
	encoder png.Encoder
	logger  *slog.Logger
}

var _ Matrix = (*NATSMatrix)(nil)

// NewNATSMatrix creates a NATS backed matrix.
func NewNATSMatrix(conn Conn, subject string, width, height int, logger *slog.Logger) *NATSMatrix {
	return &NATSMatrix{
		conn:    conn,
		subject: subject,
		width:   width,
		height:  height,
		encoder: png.Encoder{CompressionLevel: png.BestSpeed},
		logger:  logger,
	}
}

func (n *NATSMatrix) Width() int  { return n.width }
func (n *NATSMatrix) Height() int { return n.height }

func (n *NATSMatrix) Clear(ctx context.Context) error {
	return n.Show(ctx, blank(n.width, n.height))
}

func (n *NATSMatrix) Show(ctx context.Context, img image.Image) error {
	var buf bytes.Buffer
	if err := n.encoder.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := n.conn.Publish(n.subject, buf.Bytes()); err != nil {
		n.logger.DebugContext(ctx, "Failed to publish frame",
			attr.String("subject", n.subject),
			attr.Error(err),
		)
		return fmt.Errorf("failed to publish frame to %s: %w", n.subject, err)
	}
	return nil
}
