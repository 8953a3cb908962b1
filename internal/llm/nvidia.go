package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// NvidiaClient implements Client against NVIDIA Integrate, which speaks the
// OpenAI chat-completions protocol. Any OpenAI-compatible endpoint works by
// pointing baseURL at it.
type NvidiaClient struct {
	client openai.Client
	model  string
}

// NewNvidiaClient creates a client for an OpenAI-compatible endpoint.
func NewNvidiaClient(apiKey, baseURL, model string) (*NvidiaClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("nvidia: API key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &NvidiaClient{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// GenerateJSON implements Client using JSON response mode.
func (c *NvidiaClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(0.3),
		MaxTokens:   openai.Int(4000),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return CleanJSONBlock(resp.Choices[0].Message.Content), nil
}

// Model returns the configured model name.
func (c *NvidiaClient) Model() string {
	return c.model
}

// Close implements Client. The HTTP-backed client holds no resources.
func (c *NvidiaClient) Close() error {
	return nil
}
