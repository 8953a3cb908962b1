// Package llm provides the text-generation clients behind resume extraction
// and report generation. Two providers are supported: NVIDIA Integrate (any
// OpenAI-compatible endpoint, the default) and Google Gemini.
package llm

import (
	"context"
	"fmt"

	"backgrounder/internal/config"
)

// Client is an abstraction over LLM providers.
type Client interface {
	// GenerateJSON sends a system + user prompt pair and returns the raw
	// JSON response text, with any markdown code fences stripped.
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// Model returns the configured model name, for logging.
	Model() string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates an LLM client based on configuration.
func NewClient(ctx context.Context, settings *config.Settings) (Client, error) {
	switch settings.LLMProvider {
	case config.LLMProviderGemini:
		return NewGeminiClient(ctx, settings.GeminiAPIKey, settings.GeminiModel)
	case config.LLMProviderNvidia:
		return NewNvidiaClient(settings.NvidiaAPIKey, settings.NvidiaBaseURL, settings.NvidiaModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", settings.LLMProvider)
	}
}
