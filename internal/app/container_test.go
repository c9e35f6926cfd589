package app

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/notify"
)

func TestNewNotifier(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"memory", config.NotifierMemory, false},
		{"redis without a store falls back to memory", config.NotifierRedis, false},
		{"unknown", "kafka", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.Defaults()
			s.Notifier = tt.key
			n, err := newNotifier(s, nil)
			if tt.wantErr {
				if !errors.Is(err, config.ErrUnknownStrategy) {
					t.Fatalf("expected ErrUnknownStrategy, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer n.Close()
			if _, ok := n.(*notify.MemoryNotifier); !ok {
				t.Errorf("expected a memory notifier, got %T", n)
			}
		})
	}
}

func TestNewProviders_UnknownKeys(t *testing.T) {
	s := config.Defaults()
	s.LLMProvider = "llama"
	s.EmbeddingProvider = "llama"
	s.STTProvider = "llama"

	if _, err := newLLM(context.Background(), s, http.DefaultClient); !errors.Is(err, config.ErrUnknownStrategy) {
		t.Errorf("llm: expected ErrUnknownStrategy, got %v", err)
	}
	if _, err := newEmbedder(context.Background(), s, http.DefaultClient); !errors.Is(err, config.ErrUnknownStrategy) {
		t.Errorf("embedder: expected ErrUnknownStrategy, got %v", err)
	}
	if _, err := newTranscription(s, http.DefaultClient); !errors.Is(err, config.ErrUnknownStrategy) {
		t.Errorf("stt: expected ErrUnknownStrategy, got %v", err)
	}
}

func TestNewTranscription(t *testing.T) {
	s := config.Defaults()
	s.OpenAIAPIKey = "test"
	s.STTProvider = config.ProviderLocal
	if _, err := newTranscription(s, http.DefaultClient); err == nil {
		t.Error("local stt without a base url must fail")
	}

	s.STTBaseURL = "http://localhost:8000/v1"
	for _, mode := range []string{config.TranscriptionSingleShot, config.TranscriptionSlidingWindow} {
		s.TranscriptionMode = mode
		if _, err := newTranscription(s, http.DefaultClient); err != nil {
			t.Errorf("%s: unexpected error %v", mode, err)
		}
	}
}

func TestOpenAIProvidersNeedNoNetwork(t *testing.T) {
	s := config.Defaults()
	s.LLMProvider = config.ProviderOpenAI
	s.EmbeddingProvider = config.ProviderOpenAI
	s.OpenAIAPIKey = "test"

	if _, err := newLLM(context.Background(), s, http.DefaultClient); err != nil {
		t.Errorf("llm: %v", err)
	}
	em, err := newEmbedder(context.Background(), s, http.DefaultClient)
	if err != nil {
		t.Fatalf("embedder: %v", err)
	}
	if em.Dimension() == 0 {
		t.Error("embedder must report its dimension")
	}
}
