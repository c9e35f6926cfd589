package whisper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/metrics"
	"github.com/akolanti/HybridRAG/internal/rag/stt"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type client struct {
	client   openai.Client
	model    string
	filename string
	logger   *logger_i.Logger
}

// NewWhisperClient talks to the hosted transcription API, or to any OpenAI-compatible
// server when baseURL is set (e.g. a self-hosted faster-whisper).
func NewWhisperClient(apikey string, baseURL string, httpClient *http.Client, sendsWav bool) stt.Transcriber {
	opts := []option.RequestOption{option.WithAPIKey(apikey), option.WithHTTPClient(httpClient)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	filename := "audio.webm"
	if sendsWav {
		filename = "audio.wav"
	}
	logger := logger_i.NewLogger("stt_whisper")
	logger.Info("Whisper client created", "baseURL", baseURL)
	return &client{
		client:   openai.NewClient(opts...),
		model:    config.WhisperModel,
		filename: filename,
		logger:   logger,
	}
}

func (c *client) Transcribe(ctx context.Context, audio []byte, prompt string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("stt_transcribe", time.Since(start)) }()

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(audio), c.filename, contentType(c.filename)),
		Model: c.model,
	}
	if prompt != "" {
		params.Prompt = openai.String(prompt)
	}

	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		c.logger.WithTrace(ctx).Error("Transcription request failed", "error", err, "bytes", len(audio))
		return "", fmt.Errorf("whisper transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func contentType(filename string) string {
	if strings.HasSuffix(filename, ".wav") {
		return "audio/wav"
	}
	return "audio/webm"
}
