package rag_test

import (
	"context"
	"testing"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/domain/streamModel"
	"github.com/akolanti/HybridRAG/internal/rag"
	"github.com/akolanti/HybridRAG/internal/rag/pipeline"
)

func answerStream(ctx context.Context, query string) []streamModel.StreamEvent {
	return []streamModel.StreamEvent{
		streamModel.ThinkingEvent(),
		streamModel.ContextEvent([]commonModels.ContextChunk{{Text: "Fire is covered.", SourceId: "doc_1", Score: 0.9}}),
		streamModel.AnswerEvent("Yes."),
	}
}

func eventTypes(seq func(func(streamModel.StreamEvent) bool)) []streamModel.EventType {
	var out []streamModel.EventType
	for e := range seq {
		out = append(out, e.EventType)
	}
	return out
}

func TestHandleAudioTurn_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		transcription []streamModel.StreamEvent
		expected      []streamModel.EventType
		expectedQuery string
		lastError     string
	}{
		{
			name: "Success_Full_Flow",
			transcription: []streamModel.StreamEvent{
				streamModel.ListeningEvent(),
				streamModel.ListeningEvent(),
				streamModel.TranscriptionEvent("is fire covered"),
			},
			expected: []streamModel.EventType{
				streamModel.Listening, streamModel.Listening, streamModel.Transcription,
				streamModel.Thinking, streamModel.Context, streamModel.Answer, streamModel.Done,
			},
			expectedQuery: "is fire covered",
		},
		{
			name: "Uses_Last_Transcript",
			transcription: []streamModel.StreamEvent{
				streamModel.TranscriptionEvent("is fire"),
				streamModel.TranscriptionEvent("is fire covered"),
			},
			expected: []streamModel.EventType{
				streamModel.Transcription, streamModel.Transcription,
				streamModel.Thinking, streamModel.Context, streamModel.Answer, streamModel.Done,
			},
			expectedQuery: "is fire covered",
		},
		{
			name: "No_Speech",
			transcription: []streamModel.StreamEvent{
				streamModel.ListeningEvent(),
				streamModel.TranscriptionEvent("  "),
			},
			expected:  []streamModel.EventType{streamModel.Listening, streamModel.Transcription, streamModel.Error},
			lastError: config.NoSpeechMessage,
		},
		{
			name: "Transcription_Failure",
			transcription: []streamModel.StreamEvent{
				streamModel.ListeningEvent(),
				streamModel.ErrorEvent(config.TranscriptionFailed),
			},
			expected:  []streamModel.EventType{streamModel.Listening, streamModel.Error},
			lastError: config.TranscriptionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transcriber := &MockTranscriber{Events: tt.transcription}
			engine := &MockEngine{OnRunStream: answerStream}
			svc := rag.NewService(transcriber, engine)

			var events []streamModel.StreamEvent
			for e := range svc.HandleAudioTurn(context.Background(), audioChunks(3)) {
				events = append(events, e)
			}

			if len(events) != len(tt.expected) {
				t.Fatalf("Expected %d events, got %d: %+v", len(tt.expected), len(events), events)
			}
			for i := range events {
				if events[i].EventType != tt.expected[i] {
					t.Errorf("event %d: expected %s, got %s", i, tt.expected[i], events[i].EventType)
				}
			}
			if tt.expectedQuery != "" && (len(engine.Queries) != 1 || engine.Queries[0] != tt.expectedQuery) {
				t.Errorf("Expected pipeline query %q, got %v", tt.expectedQuery, engine.Queries)
			}
			if tt.expectedQuery == "" && len(engine.Queries) != 0 {
				t.Errorf("Pipeline must not run, got queries %v", engine.Queries)
			}
			if tt.lastError != "" && events[len(events)-1].ErrorMessage != tt.lastError {
				t.Errorf("Expected error %q, got %q", tt.lastError, events[len(events)-1].ErrorMessage)
			}
			if transcriber.Consumed != 3 {
				t.Errorf("Expected all audio chunks to reach the transcriber, got %d", transcriber.Consumed)
			}
		})
	}
}

func TestHandleAudioTurn_DoneAfterPipelineError(t *testing.T) {
	engine := &MockEngine{OnRunStream: func(ctx context.Context, q string) []streamModel.StreamEvent {
		return []streamModel.StreamEvent{streamModel.ThinkingEvent(), streamModel.ErrorEvent(config.GenericErrorMessage)}
	}}
	svc := rag.NewService(&MockTranscriber{Events: []streamModel.StreamEvent{streamModel.TranscriptionEvent("hello")}}, engine)

	got := eventTypes(svc.HandleAudioTurn(context.Background(), audioChunks(1)))

	want := []streamModel.EventType{streamModel.Transcription, streamModel.Thinking, streamModel.Error, streamModel.Done}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestHandleTextTurn(t *testing.T) {
	engine := &MockEngine{OnRunStream: answerStream}
	svc := rag.NewService(&MockTranscriber{}, engine)

	got := eventTypes(svc.HandleTextTurn(context.Background(), "is fire covered?"))

	if got[len(got)-1] != streamModel.Done {
		t.Errorf("Expected turn to end with done, got %v", got)
	}
	if len(got) != 4 {
		t.Errorf("Expected thinking, context, answer, done; got %v", got)
	}
}

func TestHandleTextTurn_CancelledHasNoDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine := &MockEngine{}
	svc := rag.NewService(&MockTranscriber{}, engine)

	if got := eventTypes(svc.HandleTextTurn(ctx, "q")); len(got) != 0 {
		t.Errorf("Expected no events for a cancelled turn, got %v", got)
	}
}

func TestAsk(t *testing.T) {
	want := pipeline.Result{Answer: "Yes.", ContextChunks: []commonModels.ContextChunk{{Text: "Fire is covered."}}}
	engine := &MockEngine{OnRunUnary: func(ctx context.Context, q string) pipeline.Result { return want }}
	svc := rag.NewService(&MockTranscriber{}, engine)

	got := svc.Ask(context.Background(), "is fire covered?")

	if got.Answer != want.Answer || len(got.ContextChunks) != 1 {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}
