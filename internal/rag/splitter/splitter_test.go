package splitter

import (
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/HybridRAG/internal/config"
)

func TestNewSplitter_UnknownKey(t *testing.T) {
	_, err := NewSplitter("semantic")
	if !errors.Is(err, config.ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestRecursive_RespectsChunkSize(t *testing.T) {
	text := strings.Repeat("The policy covers water damage.\n\n", 80)

	chunks, err := NewRecursive(200, 20).SplitText(text)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 200 {
			t.Errorf("chunk %d has %d chars, limit is 200", i, len(c))
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is blank", i)
		}
	}
}

func TestRecursive_ShortTextSingleChunk(t *testing.T) {
	chunks, err := NewRecursive(config.ChunkSize, config.ChunkOverlap).SplitText("Short note.")
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "Short note." {
		t.Errorf("got %q", chunks)
	}
}
