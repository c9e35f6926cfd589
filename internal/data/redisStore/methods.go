package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// hash methods back the document status table

func (s *Store) HashSet(ctx context.Context, key string, field string, value interface{}) error {
	return s.client.HSet(ctx, key, field, value).Err()
}

func (s *Store) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	return s.client.HGetAll(ctx, key).Result()
}

func (s *Store) HashDel(ctx context.Context, key string, fields ...string) error {
	return s.client.HDel(ctx, key, fields...).Err()
}

// list methods back the job queue

func (s *Store) ListPush(ctx context.Context, key string, value interface{}) error {
	return s.client.LPush(ctx, key, value).Err()
}

// ListBlockingPop pops from the tail. ok is false when the timeout passed with nothing to pop.
func (s *Store) ListBlockingPop(ctx context.Context, key string, timeout time.Duration) (string, bool, error) {
	result, err := s.client.BRPop(ctx, timeout, key).Result()
	if s.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	// result is [key, value]
	return result[1], true, nil
}

// pub/sub methods back job notifications

func (s *Store) Publish(ctx context.Context, channel string, message interface{}) error {
	return s.client.Publish(ctx, channel, message).Err()
}

func (s *Store) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return s.client.Subscribe(ctx, channel)
}
