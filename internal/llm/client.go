package llm

import (
	"context"
)

// LLMClient is an interface for invoking LLM models
// This allows mocking in tests without making real API calls
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
	InvokeModelWithRetry(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}

// StreamingClient is implemented by providers that can emit partial output.
type StreamingClient interface {
	InvokeModelStream(ctx context.Context, request LLMRequest, callback StreamCallback) (*LLMResponse, error)
}

// Stream streams through the client when it supports it, otherwise it invokes
// the model once and hands the whole answer to callback.
func Stream(ctx context.Context, client LLMClient, request LLMRequest, callback StreamCallback) (*LLMResponse, error) {
	if sc, ok := client.(StreamingClient); ok {
		return sc.InvokeModelStream(ctx, request, callback)
	}

	response, err := client.InvokeModelWithRetry(ctx, request)
	if err != nil {
		return nil, err
	}

	if callback != nil && response.Content != "" {
		if err := callback(response.Content); err != nil {
			return nil, err
		}
	}
	return response, nil
}

// NoRetry turns InvokeModelWithRetry into a single attempt. Used when
// model.retry is off in the agent config.
type NoRetry struct {
	LLMClient
}

func (n NoRetry) InvokeModelWithRetry(ctx context.Context, request LLMRequest) (*LLMResponse, error) {
	return n.InvokeModel(ctx, request)
}
