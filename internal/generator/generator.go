package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"adventure-service/internal/llm"
)

const DefaultTimeout = 45 * time.Second

type Params struct {
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

func DefaultParams() Params {
	return Params{Temperature: 0.8, MaxTokens: 2000, Timeout: DefaultTimeout}
}

// Generator asks the model for a story and turns the answer into a Draft.
type Generator struct {
	client  llm.Client
	builder *Builder
	params  Params
	logger  *zap.Logger
}

func NewGenerator(client llm.Client, builder *Builder, params Params, logger *zap.Logger) *Generator {
	if params.Timeout <= 0 {
		params.Timeout = DefaultTimeout
	}
	return &Generator{
		client:  client,
		builder: builder,
		params:  params,
		logger:  logger.Named("generator"),
	}
}

func (g *Generator) Generate(ctx context.Context, theme string) (*Draft, error) {
	ctx, cancel := context.WithTimeout(ctx, g.params.Timeout)
	defer cancel()

	resp, err := g.client.Complete(ctx, llm.Request{
		System:      SystemPrompt,
		User:        UserPrompt(theme),
		Temperature: g.params.Temperature,
		MaxTokens:   g.params.MaxTokens,
	})
	if err != nil {
		if !errors.Is(err, llm.ErrGenerationFailed) {
			err = fmt.Errorf("%w: %w", llm.ErrGenerationFailed, err)
		}
		return nil, err
	}
	g.logger.Debug("model response received", zap.Int("chars", len(resp.Text)))

	draft, err := g.builder.ParseStory(resp.Text)
	if err != nil {
		g.logger.Warn("unusable model response",
			zap.Error(err),
			zap.String("response_head", head(resp.Text, 500)),
		)
		return nil, err
	}

	if draft.Tree.Truncated {
		g.logger.Warn("story tree truncated", zap.String("title", draft.Title), zap.Int("nodes", len(draft.Tree.Nodes)))
	}

	return draft, nil
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
