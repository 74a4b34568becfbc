package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// httpTimeout applies to each completion call.
const httpTimeout = 30 * time.Second

// OpenAIProvider implements Provider against an OpenAI-compatible
// chat-completions API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
}

// OpenAIOptions configures an OpenAIProvider.
type OpenAIOptions struct {
	APIKey      string
	APIBase     string // optional, defaults to the public OpenAI endpoint
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible endpoint.
func NewOpenAIProvider(opts OpenAIOptions) *OpenAIProvider {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.APIBase != "" {
		cfg.BaseURL = strings.TrimSuffix(opts.APIBase, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: httpTimeout}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
}

// Name returns the provider's name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Chat sends a chat completion request and returns the reply text.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: float32(p.temperature),
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, msg := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	return resp.Choices[0].Message.Content, nil
}
