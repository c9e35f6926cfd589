package transcription

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/domain/streamModel"
	"github.com/akolanti/HybridRAG/internal/rag/stt"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

// SlidingWindow re-transcribes the growing buffer every interval and streams interim text.
// Text up to a sentence end that two consecutive passes agree on is committed and never changes;
// the rest is flux and may be rewritten by the next pass.
type SlidingWindow struct {
	transcriber transcriberWithConversion
	now         Clock
	interval    time.Duration
	logger      *logger_i.Logger
}

func NewSlidingWindow(transcriber stt.Transcriber, converter Converter, now Clock, interval time.Duration) *SlidingWindow {
	return &SlidingWindow{
		transcriber: transcriberWithConversion{stt: transcriber, converter: converter},
		now:         now,
		interval:    interval,
		logger:      logger_i.NewLogger("Transcription"),
	}
}

type windowState struct {
	committed []string
	previous  []string
}

func (w *SlidingWindow) Process(ctx context.Context, audio iter.Seq[[]byte]) iter.Seq[streamModel.StreamEvent] {
	return func(yield func(streamModel.StreamEvent) bool) {
		loggr := w.logger.WithTrace(ctx)
		buf := newAudioBuffer(config.MaxAudioBufferBytes)
		state := &windowState{}
		lastRun := w.now()

		for chunk := range audio {
			if ctx.Err() != nil {
				return
			}
			if buf.add(chunk) == 0 {
				if buf.full {
					break
				}
				continue
			}
			if !yield(streamModel.ListeningEvent()) {
				return
			}
			if buf.full {
				loggr.Warn("Audio buffer full, ignoring the rest of the stream", "bytes", buf.len())
				break
			}

			if w.now().Sub(lastRun) < w.interval || buf.len() < config.MinAudioBytes {
				continue
			}
			lastRun = w.now()

			display, ok := w.pass(ctx, loggr, buf, state)
			if !ok {
				if ctx.Err() == nil {
					yield(streamModel.ErrorEvent(config.TranscriptionFailed))
				}
				return
			}
			if !yield(streamModel.TranscriptionEvent(display)) {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}

		if buf.len() < config.MinAudioBytes {
			yield(streamModel.TranscriptionEvent(""))
			return
		}
		display, ok := w.pass(ctx, loggr, buf, state)
		if !ok {
			if ctx.Err() == nil {
				yield(streamModel.ErrorEvent(config.TranscriptionFailed))
			}
			return
		}
		yield(streamModel.TranscriptionEvent(display))
	}
}

// pass transcribes the full buffer conditioned on the committed text and returns committed + flux.
func (w *SlidingWindow) pass(ctx context.Context, loggr *logger_i.Logger, buf *audioBuffer, state *windowState) (string, bool) {
	hypothesis, err := w.transcriber.transcribe(ctx, buf.bytes(), strings.Join(state.committed, " "))
	if err != nil {
		loggr.Error("Window transcription failed", "error", err, "bytes", buf.len())
		return "", false
	}

	flux := fluxWords(state.committed, strings.Fields(hypothesis))
	stable := stablePrefix(state.previous, flux)
	state.committed = append(state.committed, stable...)
	state.previous = flux[len(stable):]

	return joinWords(state.committed, state.previous), true
}

// fluxWords drops the words of hypothesis that are already covered by committed.
func fluxWords(committed []string, hypothesis []string) []string {
	if len(hypothesis) <= len(committed) {
		return nil
	}
	return hypothesis[len(committed):]
}

// stablePrefix returns the words both passes agree on, cut after the last sentence end.
func stablePrefix(previous []string, current []string) []string {
	agreed := 0
	for agreed < len(previous) && agreed < len(current) && previous[agreed] == current[agreed] {
		agreed++
	}
	for i := agreed - 1; i >= 0; i-- {
		if endsSentence(current[i]) {
			return current[:i+1]
		}
	}
	return nil
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}

func joinWords(parts ...[]string) string {
	var words []string
	for _, p := range parts {
		words = append(words, p...)
	}
	return strings.Join(words, " ")
}
