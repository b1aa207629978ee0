package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipe_agent"

// Metrics groups the collectors the agent reports. A nil *Metrics is valid
// and records nothing, so components can run without it.
type Metrics struct {
	registry *prometheus.Registry

	sqlDecisions *prometheus.CounterVec
	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	inputBlocked *prometheus.CounterVec
	recipesSaved *prometheus.CounterVec
	agentSteps   prometheus.Histogram
	llmTokens    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		sqlDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sql_guardrail_decisions_total",
			Help:      "SQL guardrail outcomes by statement kind and error kind.",
		}, []string{"kind", "result"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Agent tool invocations by tool and status.",
		}, []string{"tool", "status"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Agent tool latency.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"tool"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		inputBlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_guardrail_blocks_total",
			Help:      "Chat prompts blocked by the input guardrails.",
		}, []string{"method", "category"}),
		recipesSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipes_saved_total",
			Help:      "save_recipe outcomes.",
		}, []string{"status"}),
		agentSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "agent_steps",
			Help:      "Tool calls made per chat turn.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Tokens reported by the model provider, by direction.",
		}, []string{"direction"}),
	}

	reg.MustRegister(
		m.sqlDecisions,
		m.toolCalls,
		m.toolDuration,
		m.httpRequests,
		m.httpDuration,
		m.inputBlocked,
		m.recipesSaved,
		m.agentSteps,
		m.llmTokens,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// SQLDecision records a guardrail verdict. result is "accepted" or the
// rejection error kind.
func (m *Metrics) SQLDecision(kind, result string) {
	if m == nil {
		return
	}
	m.sqlDecisions.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ToolCall(tool string, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

func (m *Metrics) HTTPRequest(route, method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, code).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

func (m *Metrics) InputBlocked(method, category string) {
	if m == nil {
		return
	}
	m.inputBlocked.WithLabelValues(method, category).Inc()
}

func (m *Metrics) RecipeSaved(status string) {
	if m == nil {
		return
	}
	m.recipesSaved.WithLabelValues(status).Inc()
}

func (m *Metrics) AgentSteps(n int) {
	if m == nil {
		return
	}
	m.agentSteps.Observe(float64(n))
}

// LLMTokens adds the usage of one model call. Providers that do not report
// usage leave both at zero.
func (m *Metrics) LLMTokens(input, output int) {
	if m == nil {
		return
	}
	if input > 0 {
		m.llmTokens.WithLabelValues("input").Add(float64(input))
	}
	if output > 0 {
		m.llmTokens.WithLabelValues("output").Add(float64(output))
	}
}
