package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

type ollamaClient struct {
	client *api.Client
	model  string
	logger *zap.Logger
}

// NewOllamaClient uses the native Ollama API, so a trailing /v1 on the base
// URL is dropped.
func NewOllamaClient(cfg Config, httpClient *http.Client, logger *zap.Logger) (Client, error) {
	base := strings.TrimSuffix(strings.TrimSuffix(cfg.BaseURL, "/"), "/v1")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("llm: parse ollama base url %q: %w", base, err)
	}

	logger.Info("ollama client created", zap.String("base_url", base), zap.String("model", cfg.Model))

	return &ollamaClient{
		client: api.NewClient(u, httpClient),
		model:  cfg.Model,
		logger: logger.Named("ollama"),
	}, nil
}

func (c *ollamaClient) Complete(ctx context.Context, req Request) (*Response, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}

	start := time.Now()
	var final api.ChatResponse
	err := c.client.Chat(ctx, chatReq, func(r api.ChatResponse) error {
		final = r
		return nil
	})
	elapsed := time.Since(start)
	if err != nil {
		status := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			status = "timeout"
		}
		observe(c.model, status, elapsed.Seconds(), Usage{})
		c.logger.Warn("chat failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if final.Message.Content == "" {
		observe(c.model, "empty", elapsed.Seconds(), Usage{})
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	usage := Usage{
		PromptTokens:     final.PromptEvalCount,
		CompletionTokens: final.EvalCount,
		TotalTokens:      final.PromptEvalCount + final.EvalCount,
	}
	observe(c.model, "success", elapsed.Seconds(), usage)

	return &Response{Text: final.Message.Content, Usage: usage}, nil
}
