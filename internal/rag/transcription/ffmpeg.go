package transcription

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/metrics"
)

// FFmpegConverter turns browser audio (webm/opus) into 16 kHz mono wav.
type FFmpegConverter struct {
	binary string
}

func NewFFmpegConverter(binary string) *FFmpegConverter {
	if binary == "" {
		binary = config.FFmpegBinary
	}
	return &FFmpegConverter{binary: binary}
}

func ffmpegArgs() []string {
	return []string{"-i", "pipe:0", "-f", "wav", "-ac", "1", "-ar", "16000", "pipe:1", "-loglevel", "error"}
}

func (f *FFmpegConverter) Convert(ctx context.Context, audio []byte) ([]byte, error) {
	if len(audio) == 0 {
		return nil, nil
	}
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("audio_conversion", time.Since(start)) }()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.binary, ffmpegArgs()...)
	cmd.Stdin = bytes.NewReader(audio)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg conversion failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
