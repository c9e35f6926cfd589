package rag_test

import (
	"context"
	"iter"

	"github.com/akolanti/HybridRAG/internal/domain/streamModel"
	"github.com/akolanti/HybridRAG/internal/rag/pipeline"
)

// MockTranscriber implements transcription.Strategy
type MockTranscriber struct {
	Events   []streamModel.StreamEvent
	Consumed int
}

func (m *MockTranscriber) Process(ctx context.Context, audio iter.Seq[[]byte]) iter.Seq[streamModel.StreamEvent] {
	return func(yield func(streamModel.StreamEvent) bool) {
		for range audio {
			m.Consumed++
		}
		for _, e := range m.Events {
			if !yield(e) {
				return
			}
		}
	}
}

// MockEngine implements rag.Runner
type MockEngine struct {
	OnRunStream func(ctx context.Context, query string) []streamModel.StreamEvent
	OnRunUnary  func(ctx context.Context, query string) pipeline.Result
	Queries     []string
}

func (m *MockEngine) RunStream(ctx context.Context, query string) iter.Seq[streamModel.StreamEvent] {
	m.Queries = append(m.Queries, query)
	return func(yield func(streamModel.StreamEvent) bool) {
		if m.OnRunStream == nil {
			return
		}
		for _, e := range m.OnRunStream(ctx, query) {
			if !yield(e) {
				return
			}
		}
	}
}

func (m *MockEngine) RunUnary(ctx context.Context, query string) pipeline.Result {
	m.Queries = append(m.Queries, query)
	if m.OnRunUnary != nil {
		return m.OnRunUnary(ctx, query)
	}
	return pipeline.Result{}
}

func audioChunks(n int) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for range n {
			if !yield([]byte{1, 2, 3}) {
				return
			}
		}
	}
}
