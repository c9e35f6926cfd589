package splitter

import (
	"fmt"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/tmc/langchaingo/textsplitter"
)

// Splitter turns extracted document text into chunks ready for embedding.
type Splitter interface {
	SplitText(text string) ([]string, error)
}

var recursiveSeparators = []string{"\n\n", "\n", " ", ""}

// NewSplitter returns the splitter registered under key.
func NewSplitter(key string) (Splitter, error) {
	switch key {
	case config.SplitterRecursive:
		return NewRecursive(config.ChunkSize, config.ChunkOverlap), nil
	case config.SplitterToken:
		return NewToken(config.TokenChunkSize, config.TokenChunkOverlap), nil
	default:
		return nil, fmt.Errorf("%w: splitter %q", config.ErrUnknownStrategy, key)
	}
}

// NewRecursive splits on paragraphs, then lines, then words, counting characters.
func NewRecursive(size int, overlap int) Splitter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators(recursiveSeparators),
	)
}

// NewToken splits on token boundaries of the embedding model's encoding.
func NewToken(size int, overlap int) Splitter {
	return textsplitter.NewTokenSplitter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithEncodingName(config.TokenEncoding),
	)
}
