package rag

import (
	"context"

	"github.com/akolanti/HybridRAG/internal/domain/streamModel"
	"github.com/akolanti/HybridRAG/internal/metrics"
)

// emit forwards one event and counts it.
func emit(yield func(streamModel.StreamEvent) bool, event streamModel.StreamEvent) bool {
	metrics.CountStreamEvent(string(event.EventType))
	return yield(event)
}

// answer relays the pipeline for query and closes the turn with done.
func (s *service) answer(ctx context.Context, query string, yield func(streamModel.StreamEvent) bool) {
	for event := range s.engine.RunStream(ctx, query) {
		if !emit(yield, event) {
			return
		}
	}
	if ctx.Err() != nil {
		return
	}
	emit(yield, streamModel.DoneEvent())
}
