package notify

import (
	"context"
	"fmt"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/data/redisStore"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

type RedisNotifier struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisNotifier(s *redisStore.Store) *RedisNotifier {
	return &RedisNotifier{store: s, logger: logger_i.NewLogger("RedisNotifier")}
}

func (n *RedisNotifier) Publish(ctx context.Context, update jobModel.JobUpdate) error {
	data, err := encode(update)
	if err != nil {
		return err
	}
	if err := n.store.Publish(ctx, config.JobUpdatesChannel, data); err != nil {
		return fmt.Errorf("publish job update: %w", err)
	}
	n.logger.WithTrace(ctx).Debug("Published job update", "docId", update.DocId, "status", update.Status)
	return nil
}

func (n *RedisNotifier) Subscribe(ctx context.Context) (<-chan []byte, error) {
	ps := n.store.Subscribe(ctx, config.JobUpdatesChannel)
	// Receive blocks until the subscription is confirmed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", config.JobUpdatesChannel, err)
	}
	return forward(ctx, ps.Channel(), func(m *redis.Message) []byte { return []byte(m.Payload) }, func() {
		if err := ps.Close(); err != nil {
			n.logger.Warn("Error closing subscription", "error", err)
		}
	}), nil
}

// Close is a no-op, the redis store owns the connection.
func (n *RedisNotifier) Close() error {
	return nil
}
