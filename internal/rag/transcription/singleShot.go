package transcription

import (
	"context"
	"iter"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/streamModel"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

// SingleShot buffers the whole utterance and transcribes it once at the end.
type SingleShot struct {
	transcriber transcriberWithConversion
	logger      *logger_i.Logger
}

func (s *SingleShot) Process(ctx context.Context, audio iter.Seq[[]byte]) iter.Seq[streamModel.StreamEvent] {
	return func(yield func(streamModel.StreamEvent) bool) {
		loggr := s.logger.WithTrace(ctx)
		buf := newAudioBuffer(config.MaxAudioBufferBytes)

		for chunk := range audio {
			if ctx.Err() != nil {
				return
			}
			if buf.add(chunk) > 0 && !yield(streamModel.ListeningEvent()) {
				return
			}
			if buf.full {
				loggr.Warn("Audio buffer full, ignoring the rest of the stream", "bytes", buf.len())
				break
			}
		}
		if ctx.Err() != nil {
			return
		}

		if buf.len() < config.MinAudioBytes {
			loggr.Debug("Audio too short to transcribe", "bytes", buf.len())
			yield(streamModel.TranscriptionEvent(""))
			return
		}

		text, err := s.transcriber.transcribe(ctx, buf.bytes(), "")
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			loggr.Error("Transcription failed", "error", err, "bytes", buf.len())
			yield(streamModel.ErrorEvent(config.TranscriptionFailed))
			return
		}
		yield(streamModel.TranscriptionEvent(text))
	}
}
