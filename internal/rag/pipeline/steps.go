package pipeline

import (
	"context"
	"iter"

	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/domain/streamModel"
)

type ContextRetriever interface {
	Retrieve(ctx context.Context, query string) ([]commonModels.ContextChunk, string, error)
}

type AnswerGenerator interface {
	StreamAnswer(ctx context.Context, query string, contextText string) iter.Seq2[string, error]
}

type ThinkingStep struct{}

func (ThinkingStep) Name() string { return "thinking" }

func (ThinkingStep) Execute(ctx context.Context, pc *Context) iter.Seq2[streamModel.StreamEvent, error] {
	return func(yield func(streamModel.StreamEvent, error) bool) {
		yield(streamModel.ThinkingEvent(), nil)
	}
}

type RetrievalStep struct {
	retriever ContextRetriever
}

func NewRetrievalStep(retriever ContextRetriever) *RetrievalStep {
	return &RetrievalStep{retriever: retriever}
}

func (s *RetrievalStep) Name() string { return "retrieval" }

func (s *RetrievalStep) Execute(ctx context.Context, pc *Context) iter.Seq2[streamModel.StreamEvent, error] {
	return func(yield func(streamModel.StreamEvent, error) bool) {
		if pc.Query == "" {
			return
		}
		chunks, contextString, err := s.retriever.Retrieve(ctx, pc.Query)
		if err != nil {
			yield(streamModel.StreamEvent{}, err)
			return
		}
		pc.Chunks = chunks
		pc.ContextString = contextString
		yield(streamModel.ContextEvent(chunks), nil)
	}
}

type GenerationStep struct {
	generator AnswerGenerator
}

func NewGenerationStep(generator AnswerGenerator) *GenerationStep {
	return &GenerationStep{generator: generator}
}

func (s *GenerationStep) Name() string { return "generation" }

func (s *GenerationStep) Execute(ctx context.Context, pc *Context) iter.Seq2[streamModel.StreamEvent, error] {
	return func(yield func(streamModel.StreamEvent, error) bool) {
		for token, err := range s.generator.StreamAnswer(ctx, pc.Query, pc.ContextString) {
			if err != nil {
				yield(streamModel.StreamEvent{}, err)
				return
			}
			if token == "" {
				continue
			}
			if !yield(streamModel.AnswerEvent(token), nil) {
				return
			}
		}
	}
}
