package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/raisama21/ims/pkg/config"
	"github.com/raisama21/ims/pkg/logger"
	"go.uber.org/zap"
)

// NATSPublisher publishes order events as JSON on a NATS connection
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// Connect dials the configured NATS server
func Connect(cfg config.NATSConfig) (*NATSPublisher, error) {
	log := logger.GetLogger()

	nc, err := nats.Connect(cfg.URL,
		nats.Name("ims"),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("Disconnected from NATS", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error("NATS error", zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return NewNATSPublisher(nc, cfg.Subject), nil
}

// NewNATSPublisher wraps an established connection
func NewNATSPublisher(conn *nats.Conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

func (p *NATSPublisher) Publish(ctx context.Context, e OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return p.conn.Publish(Subject(p.subject, e), data)
}

// Close flushes pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
