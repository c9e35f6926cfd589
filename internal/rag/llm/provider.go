package llm

import (
	"context"
	"iter"
)

type Provider interface {
	// Generate returns one completion for a self-contained prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// StreamAnswer streams answer fragments for query grounded in contextText.
	// A non-nil error ends the sequence.
	StreamAnswer(ctx context.Context, query string, contextText string) iter.Seq2[string, error]
}
