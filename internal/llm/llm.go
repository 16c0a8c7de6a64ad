// Package llm provides text generation against hosted model APIs.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ChangLabSNU/Hedwig/internal/config"
)

// Client generates text from a system prompt and user input.
type Client interface {
	// Generate returns the model's response. prompt carries the system
	// instructions; input is the content to act on.
	Generate(ctx context.Context, prompt, input, model string) (string, error)
}

// New builds a client for the configured provider. The API key falls back
// to the provider's conventional environment variable; a missing key is an
// error so failures happen at startup instead of mid-pipeline.
func New(cfg config.LLMAPIConfig) (Client, error) {
	httpClient := &http.Client{Timeout: 5 * time.Minute}

	switch cfg.Provider {
	case "", "gemini":
		key := cfg.Key
		if key == "" {
			key = os.Getenv("GEMINI_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("gemini: no API key configured")
		}
		return &geminiClient{apiKey: key, baseURL: cfg.BaseURL, http: httpClient}, nil

	case "anthropic":
		key := cfg.Key
		if key == "" {
			key = os.Getenv("ANTHROPIC_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("anthropic: no API key configured")
		}
		return &anthropicClient{apiKey: key, baseURL: cfg.BaseURL, http: httpClient}, nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
