package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// openAIClient talks to any OpenAI-compatible endpoint (Groq by default).
type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIClient(cfg Config, httpClient *http.Client, logger *zap.Logger) Client {
	oc := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	oc.HTTPClient = httpClient

	logger.Info("openai client created",
		zap.String("base_url", oc.BaseURL),
		zap.String("model", cfg.Model),
		zap.Duration("timeout", cfg.Timeout),
	)

	return &openAIClient{
		client: openaigo.NewClientWithConfig(oc),
		model:  cfg.Model,
		logger: logger.Named("openai"),
	}
}

func (c *openAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: req.System},
			{Role: openaigo.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	elapsed := time.Since(start)
	if err != nil {
		status := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			status = "timeout"
		}
		observe(c.model, status, elapsed.Seconds(), Usage{})
		c.logger.Warn("chat completion failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		observe(c.model, "empty", elapsed.Seconds(), Usage{})
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	usage := Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	observe(c.model, "success", elapsed.Seconds(), usage)

	text := resp.Choices[0].Message.Content
	c.logger.Debug("chat completion received",
		zap.Duration("elapsed", elapsed),
		zap.Int("chars", len(text)),
		zap.Int("total_tokens", usage.TotalTokens),
	)

	return &Response{Text: text, Usage: usage}, nil
}
