package redisStore

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
	Type   int
	logger *logger_i.Logger
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewStore connects and pings redis. The store is closed when ctx is done.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	logger := logger_i.NewLogger(fmt.Sprintf("Redis Store %d", opts.DB))

	newClient := redis.NewClient(&redis.Options{
		Addr:                  opts.Addr,
		Password:              opts.Password,
		DB:                    opts.DB,
		ContextTimeoutEnabled: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := newClient.Ping(pingCtx).Err(); err != nil {
		_ = newClient.Close()
		return nil, fmt.Errorf("redis is offline at %s: %w", opts.Addr, err)
	}

	logger.Info("Redis store init successfully", "addr", opts.Addr)

	store := &Store{
		client: newClient,
		Type:   opts.DB,
		logger: logger,
	}
	go store.closeOnDone(ctx)
	return store, nil
}

func (s *Store) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	s.logger.Info("Closing Redis Store")
	if err := s.client.Close(); err != nil {
		s.logger.Error("Error closing redis client", "error", err)
		return
	}
	s.logger.Info("Redis Store Closed successfully")
}

// NewTestStore wraps an existing client, used with miniredis.
func NewTestStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		logger: logger_i.NewLogger("Redis Test Store"),
	}
}
