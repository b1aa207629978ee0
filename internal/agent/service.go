package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/conversation"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/metrics"
	"github.com/povarna/generative-ai-agents/recipe-agent/internal/tools"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// ToolRunner is satisfied by tools.Registry.
type ToolRunner interface {
	Describe() string
	Execute(ctx context.Context, name string, input json.RawMessage) (string, error)
}

// InputValidator is satisfied by guardrails.Guardrails.
type InputValidator interface {
	ValidateInput(ctx context.Context, input string) guardrails.ValidationResult
}

// EventSink receives streaming events. Returning an error stops the run.
type EventSink func(event SSEEvent) error

type Options struct {
	Model           string
	SystemPrompt    string
	MaxSteps        int
	HistoryMessages int
	MaxTokens       int
	Temperature     float64
}

type Service struct {
	client    llm.LLMClient
	tools     ToolRunner
	store     conversation.Store
	validator InputValidator
	metrics   *metrics.Metrics
	opts      Options
	system    string
	logger    *zerolog.Logger
}

// NewService builds the agent. validator may be nil to skip input checks.
func NewService(
	client llm.LLMClient,
	toolRunner ToolRunner,
	store conversation.Store,
	validator InputValidator,
	m *metrics.Metrics,
	opts Options,
	logger *zerolog.Logger,
) *Service {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = 6
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 2048
	}

	return &Service{
		client:    client,
		tools:     toolRunner,
		store:     store,
		validator: validator,
		metrics:   m,
		opts:      opts,
		system:    BuildSystemPrompt(opts.SystemPrompt, toolRunner.Describe()),
		logger:    logger,
	}
}

func (s *Service) Model() string { return s.opts.Model }

func (s *Service) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	return s.run(ctx, req, nil)
}

// ChatStream runs the same loop as Chat and reports progress through sink:
// start, one tool event per call, the answer as chunk events, then done.
func (s *Service) ChatStream(ctx context.Context, req ChatRequest, sink EventSink) error {
	_, err := s.run(ctx, req, sink)
	if err != nil {
		_ = sink(SSEEvent{Event: "error", Data: StreamErrorEvent{Error: err.Error()}})
	}
	return err
}

// Session returns the stored conversation.
func (s *Service) Session(ctx context.Context, sessionID string) (*conversation.Session, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *Service) run(ctx context.Context, req ChatRequest, sink EventSink) (ChatResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = conversation.NewSessionID()
	}
	ctx = tools.WithSessionID(ctx, sessionID)

	emit := func(event string, data any) error {
		if sink == nil {
			return nil
		}
		return sink(SSEEvent{Event: event, Data: data})
	}

	if err := emit("start", StreamStartEvent{SessionID: sessionID, Model: s.opts.Model}); err != nil {
		return ChatResponse{}, err
	}

	response := ChatResponse{SessionID: sessionID, Model: s.opts.Model, Steps: []ToolStep{}}

	if refusal, blocked := s.screen(ctx, req.Prompt); blocked {
		response.Content = refusal
		response.Blocked = true
		if err := emit("chunk", StreamChunkEvent{Text: refusal}); err != nil {
			return response, err
		}
		return response, emit("done", StreamDoneEvent{SessionID: sessionID, Blocked: true})
	}

	history := s.history(ctx, sessionID)

	request := llm.LLMRequest{
		System:        s.system,
		MaxTokens:     s.opts.MaxTokens,
		Temperature:   s.opts.Temperature,
		StopSequences: []string{observationStop},
	}
	if req.MaxTokens > 0 {
		request.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		request.Temperature = req.Temperature
	}

	answer := ""
	answered := false

	for len(response.Steps) < s.opts.MaxSteps {
		request.Prompt = buildTurnPrompt(history, req.Prompt, response.Steps)

		reply, err := s.client.InvokeModelWithRetry(ctx, request)
		if err != nil {
			return response, fmt.Errorf("failed to invoke model: %w", err)
		}
		s.metrics.LLMTokens(reply.InputTokens, reply.OutputTokens)

		decision, err := ParseDecision(reply.Content)
		if err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("model reply did not follow the protocol")
			response.Steps = append(response.Steps, ToolStep{
				Tool:   "invalid",
				Input:  json.RawMessage("{}"),
				Output: fmt.Sprintf("Error: %v. Reply with ACTION and INPUT, or FINAL.", err),
			})
			continue
		}

		if decision.IsFinal {
			answer = decision.Final
			answered = true
			if err := emit("chunk", StreamChunkEvent{Text: answer}); err != nil {
				return response, err
			}
			break
		}

		if err := emit("tool", StreamToolEvent{Tool: decision.Tool, Input: decision.Input}); err != nil {
			return response, err
		}
		response.Steps = append(response.Steps, s.callTool(ctx, decision))
	}

	if !answered {
		s.logger.Info().Str("session_id", sessionID).Int("steps", len(response.Steps)).Msg("Step limit reached, forcing final answer")

		request.Prompt = buildTurnPrompt(history, req.Prompt, response.Steps) + "\n" + forceFinalInstruction
		final, err := llm.Stream(ctx, s.client, request, func(chunk string) error {
			return emit("chunk", StreamChunkEvent{Text: chunk})
		})
		if err != nil {
			return response, fmt.Errorf("failed to get final answer: %w", err)
		}
		s.metrics.LLMTokens(final.InputTokens, final.OutputTokens)
		answer = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(final.Content), finalPrefix))
	}

	response.Content = answer
	s.metrics.AgentSteps(len(response.Steps))
	s.save(ctx, sessionID, req.Prompt, answer)

	return response, emit("done", StreamDoneEvent{SessionID: sessionID, Steps: len(response.Steps)})
}

func (s *Service) callTool(ctx context.Context, decision Decision) ToolStep {
	start := time.Now()
	out, err := s.tools.Execute(ctx, decision.Tool, decision.Input)
	if err != nil {
		s.logger.Warn().Err(err).Str("tool", decision.Tool).Msg("Tool call failed")
		out = fmt.Sprintf("Error: %v", err)
	}

	s.logger.Info().
		Str("tool", decision.Tool).
		Dur("duration", time.Since(start)).
		Int("output_chars", len(out)).
		Msg("Tool called")

	return ToolStep{Tool: decision.Tool, Input: decision.Input, Output: out}
}

// screen runs the input guardrails and returns the refusal to send when the
// prompt is blocked.
func (s *Service) screen(ctx context.Context, prompt string) (string, bool) {
	if s.validator == nil {
		return "", false
	}

	result := s.validator.ValidateInput(ctx, prompt)
	if result.IsValid {
		return "", false
	}

	s.metrics.InputBlocked(result.Method, result.Category)
	return fmt.Sprintf("I can't help with that request (%s). I'm happy to help with recipes, cooking or drinks.", result.Reason), true
}

func (s *Service) history(ctx context.Context, sessionID string) []conversation.Message {
	session, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, conversation.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to load history, continuing without it")
		return nil
	}
	return session.Recent(s.opts.HistoryMessages)
}

func (s *Service) save(ctx context.Context, sessionID, prompt, answer string) {
	now := time.Now().UTC()
	_, err := s.store.Append(ctx, sessionID,
		conversation.Message{Role: conversation.RoleUser, Content: prompt, Timestamp: now},
		conversation.Message{Role: conversation.RoleAssistant, Content: answer, Timestamp: now},
	)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to save conversation")
	}
}
