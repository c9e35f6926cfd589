package openaiLLM

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/rag/llm"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client    openai.Client
	modelName string
	logger    *logger_i.Logger
}

func NewOpenAIClient(apikey string, modelName string, httpClient *http.Client) llm.Provider {
	logger := logger_i.NewLogger("llm_openai")
	c := openai.NewClient(option.WithAPIKey(apikey), option.WithHTTPClient(httpClient))
	logger.Info("OpenAI client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, logger: logger}
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.modelName,
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(0),
	})
	if err != nil {
		c.logger.WithTrace(ctx).Error("OpenAI completion failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *llmClient) StreamAnswer(ctx context.Context, query string, contextText string) iter.Seq2[string, error] {
	params := openai.ChatCompletionNewParams{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llm.PolicyChatSystemPrompt),
			openai.SystemMessage("Context:\n" + contextText),
			openai.UserMessage(query),
		},
		Temperature: openai.Float(config.ModelTemperature),
	}

	return func(yield func(string, error) bool) {
		stream := c.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("openai stream: %w", err))
		}
	}
}
