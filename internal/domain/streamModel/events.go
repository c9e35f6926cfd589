package streamModel

import "github.com/akolanti/HybridRAG/internal/domain/commonModels"

type EventType string

const (
	Thinking      EventType = "thinking"
	Listening     EventType = "listening"
	Transcription EventType = "transcription"
	Context       EventType = "context"
	Answer        EventType = "answer"
	Error         EventType = "error"
	Done          EventType = "done"
)

// StreamEvent is one item of a turn's output. Only the payload that matches EventType is set,
// use the constructors below instead of building it by hand.
type StreamEvent struct {
	EventType     EventType                   `json:"event"`
	TextChunk     string                      `json:"text,omitempty"`
	ContextChunks []commonModels.ContextChunk `json:"contexts,omitempty"`
	ErrorMessage  string                      `json:"error,omitempty"`
}

func ThinkingEvent() StreamEvent {
	return StreamEvent{EventType: Thinking}
}

func ListeningEvent() StreamEvent {
	return StreamEvent{EventType: Listening}
}

func TranscriptionEvent(text string) StreamEvent {
	return StreamEvent{EventType: Transcription, TextChunk: text}
}

func ContextEvent(chunks []commonModels.ContextChunk) StreamEvent {
	if chunks == nil {
		chunks = []commonModels.ContextChunk{}
	}
	return StreamEvent{EventType: Context, ContextChunks: chunks}
}

func AnswerEvent(token string) StreamEvent {
	return StreamEvent{EventType: Answer, TextChunk: token}
}

func ErrorEvent(message string) StreamEvent {
	return StreamEvent{EventType: Error, ErrorMessage: message}
}

func DoneEvent() StreamEvent {
	return StreamEvent{EventType: Done}
}

// IsTerminal reports whether no further events follow this one in a turn.
func (e StreamEvent) IsTerminal() bool {
	return e.EventType == Error || e.EventType == Done
}
