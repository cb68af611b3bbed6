package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adventure-service/internal/llm"
	"adventure-service/internal/mocks"
)

func hasDeadline(ctx context.Context) bool {
	_, ok := ctx.Deadline()
	return ok
}

func TestGenerator_Generate(t *testing.T) {
	raw, err := os.ReadFile("testdata/fantasy.json")
	require.NoError(t, err)

	client := new(mocks.LLMClient)
	client.On("Complete",
		mock.MatchedBy(hasDeadline),
		mock.MatchedBy(func(r llm.Request) bool {
			return r.System == SystemPrompt &&
				strings.Contains(r.User, "fantasy") &&
				r.Temperature == 0.8 &&
				r.MaxTokens == 2000
		}),
	).Return(&llm.Response{Text: string(raw)}, nil).Once()

	g := NewGenerator(client, NewBuilder(DefaultLimits()), DefaultParams(), zap.NewNop())
	draft, err := g.Generate(context.Background(), "fantasy")
	require.NoError(t, err)
	assert.Equal(t, "The Dragon's Bargain", draft.Title)
	assert.Len(t, draft.Tree.Nodes, 7)

	client.AssertExpectations(t)
}

func TestGenerator_ModelError(t *testing.T) {
	client := new(mocks.LLMClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: %v", llm.ErrGenerationFailed, context.DeadlineExceeded)).Once()

	g := NewGenerator(client, NewBuilder(DefaultLimits()), DefaultParams(), zap.NewNop())
	draft, err := g.Generate(context.Background(), "space")
	require.Error(t, err)
	assert.Nil(t, draft)
	assert.True(t, errors.Is(err, llm.ErrGenerationFailed))
}

func TestGenerator_TimeoutIsGenerationFailure(t *testing.T) {
	client := new(mocks.LLMClient)
	client.On("Complete", mock.MatchedBy(hasDeadline), mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded).Once()

	params := DefaultParams()
	params.Timeout = 10 * time.Millisecond

	g := NewGenerator(client, NewBuilder(DefaultLimits()), params, zap.NewNop())
	start := time.Now()
	_, err := g.Generate(context.Background(), "space")
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrGenerationFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	client.AssertExpectations(t)
}

func TestGenerator_InvalidJSON(t *testing.T) {
	client := new(mocks.LLMClient)
	client.On("Complete", mock.Anything, mock.Anything).
		Return(&llm.Response{Text: `{"title": "Cut off", "rootNode": {"content": "`}, nil).Once()

	g := NewGenerator(client, NewBuilder(DefaultLimits()), DefaultParams(), zap.NewNop())
	_, err := g.Generate(context.Background(), "horror")
	require.ErrorIs(t, err, ErrInvalidJSON)
}
