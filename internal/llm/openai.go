package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const defaultModel = openai.GPT4o

// OpenAIGenerator calls the OpenAI chat completion API.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIGenerator builds a generator from the environment. The API key
// comes from OPENAI_API_KEY; model and temperature are caller-supplied with
// defaults applied for zero values.
func NewOpenAIGenerator(model string, temperature float32) (*OpenAIGenerator, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
		slog.Warn("model not configured, using default", "model", model)
	}
	slog.Info("initializing OpenAI generator", "model", model)
	return &OpenAIGenerator{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	slog.Debug("generating candidate source", "model", g.model)
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	slog.Debug("received completion", "finish_reason", resp.Choices[0].FinishReason)
	return StripFences(resp.Choices[0].Message.Content), nil
}
