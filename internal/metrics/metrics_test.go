package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.SQLDecision("select", "accepted")
	m.SQLDecision("select", "accepted")
	m.SQLDecision("update", "missing_where_clause")
	m.ToolCall("web_search", "ok", 120*time.Millisecond)
	m.RecipeSaved("saved")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sqlDecisions.WithLabelValues("select", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sqlDecisions.WithLabelValues("update", "missing_where_clause")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("web_search", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.recipesSaved.WithLabelValues("saved")))
}

func TestMetrics_LLMTokens(t *testing.T) {
	m := New()

	m.LLMTokens(120, 40)
	m.LLMTokens(80, 0)

	assert.Equal(t, 200.0, testutil.ToFloat64(m.llmTokens.WithLabelValues("input")))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.llmTokens.WithLabelValues("output")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.SQLDecision("select", "accepted")
		m.ToolCall("web_search", "ok", time.Second)
		m.HTTPRequest("/api/v1/chat", "POST", "200", time.Second)
		m.InputBlocked("static", "pii")
		m.RecipeSaved("error")
		m.AgentSteps(3)
		m.LLMTokens(10, 20)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.HTTPRequest("/api/v1/health", "GET", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `recipe_agent_http_requests_total{code="200",method="GET",route="/api/v1/health"} 1`), body)
}
