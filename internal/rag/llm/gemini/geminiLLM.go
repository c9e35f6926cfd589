package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/rag/llm"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

func NewGeminiClient(ctx context.Context, apikey string, modelName string, httpClient *http.Client) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_gemini")
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI, HTTPClient: httpClient})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, logger: logger}, nil
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		c.logger.WithTrace(ctx).Error("Gemini generate failed", "error", err)
		return "", err
	}
	if result == nil {
		return "", errors.New("gemini returned no result")
	}
	return result.Text(), nil
}

func (c *llmClient) StreamAnswer(ctx context.Context, query string, contextText string) iter.Seq2[string, error] {
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: llm.PolicyChatSystemPrompt}},
		},
		Temperature: genai.Ptr[float32](config.ModelTemperature),
	}
	userPrompt := llm.BuildUserPrompt(query, contextText)

	return func(yield func(string, error) bool) {
		for resp, err := range c.client.Models.GenerateContentStream(ctx, c.modelName, genai.Text(userPrompt), contentConfig) {
			if err != nil {
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}
