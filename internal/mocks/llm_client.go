package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adventure-service/internal/llm"
)

// LLMClient is a testify mock of llm.Client.
type LLMClient struct {
	mock.Mock
}

func (m *LLMClient) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*llm.Response)
	return resp, args.Error(1)
}
