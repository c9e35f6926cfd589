package stt

import "context"

// Transcriber turns a complete audio buffer into text. prompt conditions the model on text it already produced.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, prompt string) (string, error)
}
