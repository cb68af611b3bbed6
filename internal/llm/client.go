package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var ErrGenerationFailed = errors.New("model request failed")

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Request is a single system+user completion request.
type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Response struct {
	Text  string
	Usage Usage
}

// Client is a text completion backend. Implementations honour ctx deadlines.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

type Config struct {
	Provider string
	BaseURL  string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// NewClient builds the client for cfg.Provider.
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case ProviderOpenAI, "":
		if cfg.APIKey == "" {
			return nil, errors.New("llm: api key is required for the openai provider")
		}
		return NewOpenAIClient(cfg, httpClient, logger), nil
	case ProviderOllama:
		return NewOllamaClient(cfg, httpClient, logger)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
