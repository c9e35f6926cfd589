package rag

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/streamModel"
	"github.com/akolanti/HybridRAG/internal/metrics"
	"github.com/akolanti/HybridRAG/internal/rag/pipeline"
	"github.com/akolanti/HybridRAG/internal/rag/transcription"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - This is the PUBLIC contract the transports call.
  - It defines one conversational turn, audio or text.

2. service (Private Struct):
  - This is the PRIVATE implementation.
  - It holds the transcription strategy and the pipeline engine, so
    handlers never reach the STT provider or the stores directly.

3. Dependency Injection (NewService):
  - The app container builds the strategy and the engine once at startup
    and hands them in here. Tests pass mocks the same way.
*/

// Service is one conversational turn. Every stream ends after an error or a done event.
type Service interface {
	HandleAudioTurn(ctx context.Context, audio iter.Seq[[]byte]) iter.Seq[streamModel.StreamEvent]
	HandleTextTurn(ctx context.Context, text string) iter.Seq[streamModel.StreamEvent]
	Ask(ctx context.Context, text string) pipeline.Result
}

// Runner is the part of pipeline.Engine a turn needs.
type Runner interface {
	RunStream(ctx context.Context, query string) iter.Seq[streamModel.StreamEvent]
	RunUnary(ctx context.Context, query string) pipeline.Result
}

type service struct {
	transcriber transcription.Strategy
	engine      Runner
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(transcriber transcription.Strategy, engine Runner) Service {
	return &service{
		transcriber: transcriber,
		engine:      engine,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) HandleAudioTurn(ctx context.Context, audio iter.Seq[[]byte]) iter.Seq[streamModel.StreamEvent] {
	return func(yield func(streamModel.StreamEvent) bool) {
		loggr := s.logger.WithTrace(ctx)
		start := time.Now()
		defer func() { metrics.CaptureExecutionMetrics("audio_turn", time.Since(start)) }()

		transcript := ""
		for event := range s.transcriber.Process(ctx, audio) {
			if event.EventType == streamModel.Transcription {
				transcript = event.TextChunk
			}
			if !emit(yield, event) {
				return
			}
			if event.EventType == streamModel.Error {
				loggr.Warn("Transcription ended the turn", "error", event.ErrorMessage)
				return
			}
		}
		if ctx.Err() != nil {
			return
		}

		if strings.TrimSpace(transcript) == "" {
			loggr.Info("No speech detected")
			emit(yield, streamModel.ErrorEvent(config.NoSpeechMessage))
			return
		}

		loggr.Debug("Transcribed turn", "chars", len(transcript))
		s.answer(ctx, transcript, yield)
	}
}

func (s *service) HandleTextTurn(ctx context.Context, text string) iter.Seq[streamModel.StreamEvent] {
	return func(yield func(streamModel.StreamEvent) bool) {
		start := time.Now()
		defer func() { metrics.CaptureExecutionMetrics("text_turn", time.Since(start)) }()

		s.answer(ctx, text, yield)
	}
}

func (s *service) Ask(ctx context.Context, text string) pipeline.Result {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("unary_turn", time.Since(start)) }()

	return s.engine.RunUnary(ctx, text)
}
