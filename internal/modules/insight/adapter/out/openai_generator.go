package out

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	insightout "bjjflow/internal/modules/insight/port/out"
)

type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// OpenAIGenerator calls an OpenAI-compatible chat completion endpoint. Gemini
// is reachable through its OpenAI-compatible base URL.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(cfg OpenAIConfig) insightout.Generator {
	config := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		config.BaseURL = base
	}
	// Deadlines come from the request context.
	config.HTTPClient = &http.Client{}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(config), model: cfg.Model}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
