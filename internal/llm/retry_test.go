package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"throttling", errors.New("ThrottlingException: slow down"), true},
		{"rate limited", errors.New("status 429"), true},
		{"service unavailable", errors.New("ServiceUnavailableException"), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"validation", errors.New("ValidationException: bad input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_CappedAtMaxDelay(t *testing.T) {
	maxDelay := 200 * time.Millisecond
	got := CalculateBackoff(10, 100*time.Millisecond, maxDelay)

	// jitter is at most 20% either way
	if got < time.Duration(float64(maxDelay)*0.8) || got > time.Duration(float64(maxDelay)*1.2) {
		t.Errorf("backoff %v outside jitter range around %v", got, maxDelay)
	}
}

func TestWithRetry_RetriesTransientErrors(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	calls := 0

	resp, err := WithRetry(context.Background(), policy, func(ctx context.Context) (*LLMResponse, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("ThrottlingException")
		}
		return &LLMResponse{Content: "ok"}, nil
	})

	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("Content = %q, want ok", resp.Content)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetry_StopsOnNonRetryable(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 5, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
	calls := 0

	_, err := WithRetry(context.Background(), policy, func(ctx context.Context) (*LLMResponse, error) {
		calls++
		return nil, errors.New("AccessDeniedException")
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

type onceClient struct {
	content string
}

func (c *onceClient) InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error) {
	return &LLMResponse{Content: c.content, StopReason: "end_turn"}, nil
}

func (c *onceClient) InvokeModelWithRetry(ctx context.Context, request LLMRequest) (*LLMResponse, error) {
	return c.InvokeModel(ctx, request)
}

func TestStream_FallsBackToSingleChunk(t *testing.T) {
	var chunks []string

	resp, err := Stream(context.Background(), &onceClient{content: "shaken, not stirred"}, LLMRequest{Prompt: "hi"}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	if len(chunks) != 1 || chunks[0] != "shaken, not stirred" {
		t.Errorf("chunks = %v", chunks)
	}
	if resp.StopReason != "end_turn" {
		t.Errorf("StopReason = %q", resp.StopReason)
	}
}

type countingClient struct {
	invokes, retries int
}

func (c *countingClient) InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error) {
	c.invokes++
	return &LLMResponse{Content: "ok"}, nil
}

func (c *countingClient) InvokeModelWithRetry(ctx context.Context, request LLMRequest) (*LLMResponse, error) {
	c.retries++
	return &LLMResponse{Content: "ok"}, nil
}

func TestNoRetry_InvokesOnce(t *testing.T) {
	inner := &countingClient{}

	if _, err := (NoRetry{inner}).InvokeModelWithRetry(context.Background(), LLMRequest{}); err != nil {
		t.Fatalf("InvokeModelWithRetry() error = %v", err)
	}
	if inner.invokes != 1 || inner.retries != 0 {
		t.Errorf("invokes = %d, retries = %d", inner.invokes, inner.retries)
	}
}

func TestTrimAtStop(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		stops       []string
		want        string
		wantStopped bool
	}{
		{"no stops", "ACTION: web_search", nil, "ACTION: web_search", false},
		{"not present", "FINAL: done", []string{"OBSERVATION:"}, "FINAL: done", false},
		{"cut at stop", "ACTION: x\nINPUT: {}\nOBSERVATION: made up", []string{"OBSERVATION:"}, "ACTION: x\nINPUT: {}\n", true},
		{"earliest stop wins", "a STOP2 b STOP1", []string{"STOP1", "STOP2"}, "a ", true},
		{"empty stop ignored", "abc", []string{""}, "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stopped := TrimAtStop(tt.content, tt.stops)
			if got != tt.want || stopped != tt.wantStopped {
				t.Errorf("TrimAtStop() = (%q, %v), want (%q, %v)", got, stopped, tt.want, tt.wantStopped)
			}
		})
	}
}
