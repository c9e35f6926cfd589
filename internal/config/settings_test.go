package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_Defaults(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}
}

func TestDefaults_QdrantUsesGrpcPort(t *testing.T) {
	if got := Defaults().QdrantPort; got != QdrantGrpcPort {
		t.Errorf("qdrant client speaks grpc, expected port %d, got %d", QdrantGrpcPort, got)
	}
}

func TestValidate_UnknownKeys(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"llm", func(s *Settings) { s.LLMProvider = "anthropic" }},
		{"embedding", func(s *Settings) { s.EmbeddingProvider = "cohere" }},
		{"stt", func(s *Settings) { s.STTProvider = "deepgram" }},
		{"retrieval", func(s *Settings) { s.RetrievalStrategy = "bm25" }},
		{"splitter", func(s *Settings) { s.Splitter = "semantic" }},
		{"transcription", func(s *Settings) { s.TranscriptionMode = "streaming" }},
		{"notifier", func(s *Settings) { s.Notifier = "kafka" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate()
			if !errors.Is(err, ErrUnknownStrategy) {
				t.Errorf("expected ErrUnknownStrategy, got %v", err)
			}
		})
	}
}

func TestValidate_LocalSTTNeedsBaseURL(t *testing.T) {
	s := Defaults()
	s.STTProvider = ProviderLocal
	if err := s.Validate(); err == nil {
		t.Fatal("expected error for local stt without base url")
	}
	s.STTBaseURL = "http://localhost:8000/v1"
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoad_YamlThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "retrieval_strategy: mmr\ntop_k: 3\nnotifier: memory\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOP_K", "7")
	t.Setenv("GRAPH_ENABLED", "false")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.RetrievalStrategy != RetrievalMMR {
		t.Errorf("retrieval strategy = %q, want mmr", s.RetrievalStrategy)
	}
	if s.TopK != 7 {
		t.Errorf("env should override yaml, got top_k=%d", s.TopK)
	}
	if s.GraphEnabled {
		t.Error("GRAPH_ENABLED=false should disable the graph path")
	}
	if s.Notifier != NotifierMemory {
		t.Errorf("notifier = %q, want memory", s.Notifier)
	}
}
