package pipeline

import (
	"context"
	"errors"
	"iter"
	"strings"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/domain/streamModel"
	"github.com/akolanti/HybridRAG/internal/metrics"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

// Context is the state shared by the steps of one run.
type Context struct {
	Query         string
	Chunks        []commonModels.ContextChunk
	ContextString string
}

// Step is one stage of a run. Events are forwarded to the caller as they are yielded;
// a non-nil error aborts the run.
type Step interface {
	Name() string
	Execute(ctx context.Context, pc *Context) iter.Seq2[streamModel.StreamEvent, error]
}

type Engine struct {
	steps  []Step
	logger *logger_i.Logger
}

// Result is the collected form of a run.
type Result struct {
	Answer        string                      `json:"answer"`
	ContextChunks []commonModels.ContextChunk `json:"contexts"`
	ErrorMessage  string                      `json:"error,omitempty"`
}

func NewEngine(steps ...Step) *Engine {
	return &Engine{steps: steps, logger: logger_i.NewLogger("Pipeline")}
}

// NewStandardEngine runs Thinking, then Retrieval, then Generation.
func NewStandardEngine(retriever ContextRetriever, generator AnswerGenerator) *Engine {
	return NewEngine(
		ThinkingStep{},
		&RetrievalStep{retriever: retriever},
		&GenerationStep{generator: generator},
	)
}

// RunStream yields the events of every step in order. A failing step ends the stream with
// one generic error event; a cancelled ctx ends it without one.
func (e *Engine) RunStream(ctx context.Context, query string) iter.Seq[streamModel.StreamEvent] {
	return func(yield func(streamModel.StreamEvent) bool) {
		if strings.TrimSpace(query) == "" {
			return
		}
		loggr := e.logger.WithTrace(ctx)
		pc := &Context{Query: query}

		for _, step := range e.steps {
			start := time.Now()
			err := e.runStep(ctx, step, pc, yield)
			metrics.CaptureExecutionMetrics("step_"+step.Name(), time.Since(start))

			switch {
			case errors.Is(err, errStopped):
				return
			case err != nil && ctx.Err() != nil:
				loggr.Debug("Run cancelled", "step", step.Name())
				return
			case err != nil:
				loggr.Error("Step failed", "step", step.Name(), "error", err)
				yield(streamModel.ErrorEvent(config.GenericErrorMessage))
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}
}

// errStopped means the consumer stopped reading.
var errStopped = errors.New("consumer stopped")

func (e *Engine) runStep(ctx context.Context, step Step, pc *Context, yield func(streamModel.StreamEvent) bool) error {
	for event, err := range step.Execute(ctx, pc) {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !yield(event) {
			return errStopped
		}
	}
	return nil
}

// RunUnary drains RunStream into a Result.
func (e *Engine) RunUnary(ctx context.Context, query string) Result {
	var (
		answer strings.Builder
		result Result
	)
	for event := range e.RunStream(ctx, query) {
		switch event.EventType {
		case streamModel.Answer:
			answer.WriteString(event.TextChunk)
		case streamModel.Context:
			result.ContextChunks = append(result.ContextChunks, event.ContextChunks...)
		case streamModel.Error:
			result.ErrorMessage = event.ErrorMessage
		}
	}
	result.Answer = answer.String()
	if result.ContextChunks == nil {
		result.ContextChunks = []commonModels.ContextChunk{}
	}
	return result
}
