package transcription

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/streamModel"
	"github.com/akolanti/HybridRAG/internal/rag/stt"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

// Strategy consumes a client's audio chunks and emits listening and transcription events.
// The end of audio is the end-of-speech signal.
type Strategy interface {
	Process(ctx context.Context, audio iter.Seq[[]byte]) iter.Seq[streamModel.StreamEvent]
}

// Converter normalises raw client audio before it is sent to the STT provider.
type Converter interface {
	Convert(ctx context.Context, audio []byte) ([]byte, error)
}

// Clock is injectable so window timing can be tested.
type Clock func() time.Time

// NewStrategy returns the strategy registered under key. converter may be nil.
func NewStrategy(key string, transcriber stt.Transcriber, converter Converter) (Strategy, error) {
	base := transcriberWithConversion{stt: transcriber, converter: converter}
	switch key {
	case config.TranscriptionSingleShot:
		return &SingleShot{transcriber: base, logger: logger_i.NewLogger("Transcription")}, nil
	case config.TranscriptionSlidingWindow:
		return NewSlidingWindow(transcriber, converter, time.Now, config.WindowInterval), nil
	default:
		return nil, fmt.Errorf("%w: transcription %q", config.ErrUnknownStrategy, key)
	}
}

type transcriberWithConversion struct {
	stt       stt.Transcriber
	converter Converter
}

func (t transcriberWithConversion) transcribe(ctx context.Context, audio []byte, prompt string) (string, error) {
	if t.converter != nil {
		converted, err := t.converter.Convert(ctx, audio)
		if err != nil {
			return "", err
		}
		audio = converted
	}
	return t.stt.Transcribe(ctx, audio, prompt)
}

// audioBuffer grows up to limit bytes, then refuses everything.
type audioBuffer struct {
	data  []byte
	limit int
	full  bool
}

func newAudioBuffer(limit int) *audioBuffer {
	return &audioBuffer{limit: limit}
}

// add appends as much of chunk as fits and reports how many bytes were taken.
func (b *audioBuffer) add(chunk []byte) int {
	if b.full || len(chunk) == 0 {
		return 0
	}
	room := b.limit - len(b.data)
	if len(chunk) > room {
		chunk = chunk[:room]
		b.full = true
	}
	b.data = append(b.data, chunk...)
	return len(chunk)
}

func (b *audioBuffer) len() int {
	return len(b.data)
}

func (b *audioBuffer) bytes() []byte {
	return b.data
}
