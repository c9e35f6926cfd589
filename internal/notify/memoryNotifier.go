package notify

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

// MemoryNotifier is an in-process bus for single-binary deployments and the redis fallback.
type MemoryNotifier struct {
	pubSub *gochannel.GoChannel
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{
		pubSub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(logger_i.NewLogger("memory_notifier").Slog())),
	}
}

func (n *MemoryNotifier) Publish(ctx context.Context, update jobModel.JobUpdate) error {
	data, err := encode(update)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := n.pubSub.Publish(config.JobUpdatesChannel, msg); err != nil {
		return fmt.Errorf("publish job update: %w", err)
	}
	return nil
}

func (n *MemoryNotifier) Subscribe(ctx context.Context) (<-chan []byte, error) {
	msgs, err := n.pubSub.Subscribe(ctx, config.JobUpdatesChannel)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", config.JobUpdatesChannel, err)
	}
	return forward(ctx, msgs, func(m *message.Message) []byte {
		m.Ack()
		return m.Payload
	}, func() {}), nil
}

func (n *MemoryNotifier) Close() error {
	return n.pubSub.Close()
}
