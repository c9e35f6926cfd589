package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
)

type Publisher interface {
	Publish(ctx context.Context, update jobModel.JobUpdate) error
}

// Subscriber delivers raw notification payloads until ctx is done, then closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan []byte, error)
}

type Notifier interface {
	Publisher
	Subscriber
	Close() error
}

func encode(update jobModel.JobUpdate) ([]byte, error) {
	if update.Type == "" {
		update.Type = jobModel.JobUpdateType
	}
	data, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("marshal job update: %w", err)
	}
	return data, nil
}

// forward copies from src to a fresh channel until ctx is done or src closes.
func forward[T any](ctx context.Context, src <-chan T, payload func(T) []byte, cleanup func()) <-chan []byte {
	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		defer cleanup()
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-src:
				if !ok {
					return
				}
				select {
				case out <- payload(item):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
