package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/nats-io/nats.go"
)

// NatsNotifier fans job updates out over a core NATS subject.
type NatsNotifier struct {
	nc     *nats.Conn
	logger *logger_i.Logger
}

func NewNatsNotifier(url string) (*NatsNotifier, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NatsNotifier{nc: nc, logger: logger_i.NewLogger("NatsNotifier")}, nil
}

func (n *NatsNotifier) Publish(ctx context.Context, update jobModel.JobUpdate) error {
	data, err := encode(update)
	if err != nil {
		return err
	}
	if err := n.nc.Publish(config.NotificationSubject, data); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", config.NotificationSubject, err)
	}
	n.logger.WithTrace(ctx).Debug("Published job update", "docId", update.DocId)
	return nil
}

func (n *NatsNotifier) Subscribe(ctx context.Context) (<-chan []byte, error) {
	msgs := make(chan *nats.Msg, 64)
	sub, err := n.nc.ChanSubscribe(config.NotificationSubject, msgs)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", config.NotificationSubject, err)
	}
	return forward(ctx, msgs, func(m *nats.Msg) []byte { return m.Data }, func() {
		if err := sub.Unsubscribe(); err != nil {
			n.logger.Warn("Error unsubscribing", "error", err)
		}
	}), nil
}

func (n *NatsNotifier) Close() error {
	n.nc.Close()
	return nil
}
